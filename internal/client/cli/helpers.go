package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iudanet/usersvc/internal/client/api"
	"github.com/iudanet/usersvc/internal/client/storage"
	"github.com/iudanet/usersvc/internal/validation"
)

// token возвращает сохраненный токен, если он выдан этим сервером и не истек
func (c *Cli) token(ctx context.Context) (string, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	if session.Server != c.apiClient.BaseURL() {
		return "", fmt.Errorf("%w: saved session belongs to %s", ErrNotLoggedIn, session.Server)
	}
	if session.Expired(c.now()) {
		return "", ErrSessionExpired
	}

	return session.Token, nil
}

// authError подменяет 401 на подсказку перелогиниться
func authError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w (%v)", ErrSessionExpired, err)
	}
	return err
}

// readCredentials запрашивает email и пароль; confirm включает повторный ввод пароля
func (c *Cli) readCredentials(confirm bool) (string, string, error) {
	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", "", fmt.Errorf("invalid email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", "", fmt.Errorf("invalid password: %w", err)
	}

	if confirm {
		again, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read confirmation: %w", err)
		}
		if again != password {
			return "", "", errors.New("passwords do not match")
		}
	}

	return email, password, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one argument: user id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id: %q", args[0])
	}
	return id, nil
}
