package storage

import (
	"context"
	"time"
)

// SessionStorage хранит токен текущей сессии на стороне клиента.
// Токен хранится как есть: он и так подписан сервером и ограничен по времени.
type SessionStorage interface {
	// SaveSession заменяет текущую сессию
	SaveSession(ctx context.Context, s *Session) error

	// GetSession returns the current session
	// Returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the current session (logout)
	// Returns ErrSessionNotFound if there is nothing to delete
	DeleteSession(ctx context.Context) error
}

// Session is a token obtained from POST /authenticate.
type Session struct {
	ExpiresAt time.Time `json:"expires_at"`
	Server    string    `json:"server"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
