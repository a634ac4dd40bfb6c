package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/usersvc/pkg/api"
)

// ErrUnauthorized возвращается для любого 401: неверные учетные данные,
// просроченный или поддельный токен.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx response. Message is the plain-text body the
// server sent.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Is matches ErrUnauthorized for 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization только в пределах того же хоста
				if len(via) > 0 && req.URL.Host == via[0].URL.Host {
					if auth := via[0].Header.Get("Authorization"); auth != "" {
						req.Header.Set("Authorization", auth)
					}
				}
				return nil
			},
		},
	}
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateUser регистрирует нового пользователя
func (c *Client) CreateUser(ctx context.Context, req api.UserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodPost, "/users/create_user", "", req, &resp); err != nil {
		return nil, fmt.Errorf("create user request failed: %w", err)
	}
	return &resp, nil
}

// Authenticate выполняет вход и возвращает токен
func (c *Client) Authenticate(ctx context.Context, req api.AuthRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/authenticate", "", req, &resp); err != nil {
		return nil, fmt.Errorf("authenticate request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает identity, которую сервер видит в токене
func (c *Client) Me(ctx context.Context, token string) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/users/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// ListUsers возвращает всех пользователей
func (c *Client) ListUsers(ctx context.Context, token string) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/users/get_users", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return resp, nil
}

// UpdateUser меняет email и пароль пользователя id
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req api.UserRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	path := "/users/update_user/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, http.MethodPut, path, token, req, &resp); err != nil {
		return nil, fmt.Errorf("update user request failed: %w", err)
	}
	return &resp, nil
}

// DeleteUser удаляет пользователя id
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) (*api.UserResponse, error) {
	var resp api.UserResponse
	path := "/users/delete_user/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, http.MethodDelete, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("delete user request failed: %w", err)
	}
	return &resp, nil
}

// Health запрашивает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Ошибки сервер отдает как text/plain
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
