package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const (
	// MaxEmailLen совпадает с шириной колонки users.email
	MaxEmailLen = 50
	// MaxPasswordLen ограничивает объем работы хешера на один запрос
	MaxPasswordLen = 1024
)

var (
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidEmail  = errors.New("email is not a valid address")
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// ValidateEmail проверяет, что email - одиночный адрес без display name
// и помещается в колонку БД.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}

	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return ErrInvalidEmail
	}

	if !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".") {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword checks that the password is present and bounded.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}
