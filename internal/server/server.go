// Package server связывает хранилище, токены, хешер и HTTP обработчики
// в единый сервис.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/usersvc/internal/crypto"
	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/apierr"
	"github.com/iudanet/usersvc/internal/server/config"
	"github.com/iudanet/usersvc/internal/server/handlers"
	"github.com/iudanet/usersvc/internal/server/middleware"
	"github.com/iudanet/usersvc/internal/server/storage"
	"github.com/iudanet/usersvc/internal/server/token"
	"github.com/iudanet/usersvc/internal/validation"
)

const readHeaderTimeout = 5 * time.Second

// Server is the HTTP user service.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	storage storage.UserStorage
	tokens  *token.Service
	hasher  *crypto.Hasher
	version string
}

// New creates a server over an opened storage.
func New(cfg *config.Config, logger *slog.Logger, store storage.UserStorage, version string) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		hasher:  crypto.NewHasher(crypto.DefaultParams()),
		tokens: token.NewService(token.Config{
			Secret: []byte(cfg.JWTSecret),
			TTL:    cfg.TokenTTL,
			Issuer: cfg.JWTIssuer,
		}),
		version: version,
	}
}

// Handler возвращает корневой http.Handler со всеми маршрутами и middleware.
func (s *Server) Handler() http.Handler {
	health := handlers.NewHealthHandler(s.logger, s.storage, s.version)
	auth := handlers.NewAuthHandler(s.logger, s.storage, s.hasher, s.tokens)
	users := handlers.NewUserHandler(s.logger, s.storage, s.hasher)

	gate := middleware.AuthMiddleware(s.logger, s.tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return gate(h)
	}

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /{$}", health.Status)
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("POST /authenticate", auth.Authenticate)
	mux.HandleFunc("POST /users/create_user", users.Create)

	// Protected endpoints
	mux.Handle("GET /users/get_users", protected(users.List))
	mux.Handle("GET /users/me", protected(users.Me))
	mux.Handle("PUT /users/update_user/{id}", protected(users.Update))
	mux.Handle("DELETE /users/delete_user/{id}", protected(users.Delete))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		apierr.Write(w, apierr.NotFound)
	})

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger, "/", "/health"),
	)
}

// SeedAdmin создает учетную запись администратора, если она задана в
// конфигурации и еще не существует. Существующая запись не изменяется.
func (s *Server) SeedAdmin(ctx context.Context) error {
	if !s.cfg.HasAdmin() {
		return nil
	}

	if err := validation.ValidateEmail(s.cfg.AdminEmail); err != nil {
		return fmt.Errorf("invalid admin email: %w", err)
	}

	encoded, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	inserted, err := s.storage.EnsureUser(ctx, &models.User{
		Email:        s.cfg.AdminEmail,
		PasswordHash: encoded,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if inserted {
		s.logger.InfoContext(ctx, "admin account created", slog.String("email", s.cfg.AdminEmail))
	} else {
		s.logger.DebugContext(ctx, "admin account already exists", slog.String("email", s.cfg.AdminEmail))
	}

	return nil
}

// Run слушает cfg.Address до отмены ctx, затем корректно завершает
// активные запросы в пределах ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("address", s.cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", slog.Duration("timeout", s.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
