package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/usersvc/internal/crypto"
	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/apierr"
	"github.com/iudanet/usersvc/internal/server/storage"
	"github.com/iudanet/usersvc/internal/server/token"
	"github.com/iudanet/usersvc/internal/validation"
	"github.com/iudanet/usersvc/pkg/api"
)

var errEmailTaken = apierr.NewStatusError(http.StatusConflict, "Email already registered")

// UserHandler обрабатывает CRUD запросы по пользователям
type UserHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	hasher      *crypto.Hasher
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, userStorage storage.UserStorage, hasher *crypto.Hasher) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userStorage: userStorage,
		hasher:      hasher,
	}
}

// Create обрабатывает POST /users/create_user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeUserRequest(w, r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	encoded, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: encoded,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("email", req.Email))
			apierr.Write(w, errEmailTaken)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	h.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))

	sendJSON(h.logger, w, toUserResponse(user), http.StatusCreated)
}

// List обрабатывает GET /users/get_users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	resp := make([]api.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Me обрабатывает GET /users/me
// Возвращает identity из токена, прошедшего AuthMiddleware
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := token.FromContext(ctx)
	if !ok {
		// маршрут зарегистрирован без AuthMiddleware
		h.logger.ErrorContext(ctx, "claims missing from request context")
		apierr.Write(w, apierr.Internal)
		return
	}

	resp := api.MeResponse{
		ID:    claims.UserID,
		Email: claims.Email,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Update обрабатывает PUT /users/update_user/{id}
// Новый пароль хешируется заново со свежей солью
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	req, err := h.decodeUserRequest(w, r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	encoded, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	user := &models.User{
		ID:           id,
		Email:        req.Email,
		PasswordHash: encoded,
	}

	if err := h.userStorage.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			h.logger.WarnContext(ctx, "user not found", slog.Int64("user_id", id))
			apierr.Write(w, apierr.NotFound)
		case errors.Is(err, storage.ErrUserAlreadyExists):
			h.logger.WarnContext(ctx, "email already taken", slog.String("email", req.Email))
			apierr.Write(w, errEmailTaken)
		default:
			h.logger.ErrorContext(ctx, "failed to update user", slog.Any("error", err))
			apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		}
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.Int64("user_id", id))

	sendJSON(h.logger, w, toUserResponse(user), http.StatusOK)
}

// Delete обрабатывает DELETE /users/delete_user/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	user, err := h.userStorage.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "user not found", slog.Int64("user_id", id))
			apierr.Write(w, apierr.NotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))

	sendJSON(h.logger, w, toUserResponse(user), http.StatusOK)
}

func (h *UserHandler) decodeUserRequest(w http.ResponseWriter, r *http.Request) (api.UserRequest, error) {
	var req api.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode user request", slog.Any("error", err))
		return req, err
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		h.logger.WarnContext(r.Context(), "invalid email", slog.String("email", req.Email), slog.Any("error", err))
		return req, apierr.NewStatusError(http.StatusBadRequest, err.Error())
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		return req, apierr.NewStatusError(http.StatusBadRequest, err.Error())
	}

	return req, nil
}
