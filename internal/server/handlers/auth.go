package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/usersvc/internal/crypto"
	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/apierr"
	"github.com/iudanet/usersvc/internal/server/storage"
	"github.com/iudanet/usersvc/pkg/api"
)

// TokenIssuer выпускает токен для проверенной identity
type TokenIssuer interface {
	Issue(userID int64, email string) (string, time.Time, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	hasher      *crypto.Hasher
	issuer      TokenIssuer
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, hasher *crypto.Hasher, issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		hasher:      hasher,
		issuer:      issuer,
	}
}

// Authenticate обрабатывает POST /authenticate
// Проверяет email и пароль и выдает токен
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AuthRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode authenticate request", slog.Any("error", err))
		apierr.Write(w, err)
		return
	}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "authentication failed: user not found", slog.String("email", req.Email))
			apierr.Write(w, apierr.Unauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	ok, err := h.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		// Сохраненный credential не разбирается: это порча данных, а не неверный пароль
		h.logger.ErrorContext(ctx, "stored credential is corrupt",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}
	if !ok {
		h.logger.WarnContext(ctx, "authentication failed: wrong password", slog.String("email", req.Email))
		apierr.Write(w, apierr.Unauthorized)
		return
	}

	h.upgradeCredential(ctx, user, req.Password)

	token, expiresAt, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		apierr.Write(w, apierr.Wrap(apierr.KindInternal, err))
		return
	}

	h.logger.InfoContext(ctx, "user authenticated",
		slog.Int64("user_id", user.ID),
		slog.Time("expires_at", expiresAt))

	sendJSON(h.logger, w, api.TokenResponse{Token: token, ExpiresAt: expiresAt}, http.StatusOK)
}

// upgradeCredential перехеширует пароль, если параметры хешера изменились
// с момента его сохранения. Ошибки не критичны для входа.
func (h *AuthHandler) upgradeCredential(ctx context.Context, user *models.User, password string) {
	stale, err := h.hasher.NeedsRehash(user.PasswordHash)
	if err != nil || !stale {
		return
	}

	fresh, err := h.hasher.Hash(password)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to rehash credential", slog.Any("error", err))
		return
	}

	updated := *user
	updated.PasswordHash = fresh

	if err := h.userStorage.UpdateUser(ctx, &updated); err != nil {
		h.logger.WarnContext(ctx, "failed to store rehashed credential", slog.Any("error", err))
		return
	}

	h.logger.InfoContext(ctx, "credential upgraded to current hasher parameters", slog.Int64("user_id", user.ID))
}
