package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
	Email        string    `json:"email"`         // уникальный email
	PasswordHash string    `json:"-"`             // argon2id credential в формате PHC
	ID           int64     `json:"id"`            // идентификатор (SERIAL / AUTOINCREMENT)
}
