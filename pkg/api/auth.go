package api

import "time"

// AuthRequest представляет запрос на аутентификацию
type AuthRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль в открытом виде, только поверх TLS
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	ExpiresAt time.Time `json:"expires_at"` // абсолютное время истечения токена
	Token     string    `json:"token"`      // подписанный HS256 токен
}

// MeResponse возвращает identity, извлеченную из токена
type MeResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	ID        int64     `json:"id"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
