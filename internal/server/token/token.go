// Package token issues and verifies the signed, expiring bearer tokens
// handed out at login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the token lifetime used when Config.TTL is zero.
const DefaultTTL = time.Hour

// Результаты проверки токена. Три исхода не должны смешиваться:
// expired - клиенту нужно войти заново, invalid - токен подделан или
// поврежден, остальное - ошибка конфигурации сервера.
var (
	// ErrTokenExpired indicates a correctly signed token past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates a malformed, forged or otherwise unacceptable token
	ErrTokenInvalid = errors.New("invalid token")

	// ErrMissingSecret indicates that the signing secret is not configured
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// Claims is the identity carried by a token.
type Claims struct {
	Email  string `json:"email"`
	UserID int64  `json:"id"`
	jwt.RegisteredClaims
}

// Config содержит конфигурацию для Service
type Config struct {
	// Now overrides the clock, used in tests.
	Now    func() time.Time
	Issuer string
	Secret []byte
	TTL    time.Duration
}

// Service issues and verifies HS256 tokens. It holds no mutable state and is
// safe for concurrent use.
type Service struct {
	now    func() time.Time
	issuer string
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service from cfg.
func NewService(cfg Config) *Service {
	s := &Service{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// TTL returns the lifetime of issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity. It returns the token and its
// absolute expiry. Issuance time has second granularity.
func (s *Service) Issue(userID int64, email string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}

	// NumericDate хранит целые секунды; момент выдачи округляется вниз один
	// раз, чтобы exp был ровно issuance + TTL, а не раньше
	now := s.now().Truncate(time.Second)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims.ExpiresAt.Time, nil
}

// Verify parses tokenString and returns its claims. The signature is checked
// before expiry, so a forged token is reported as ErrTokenInvalid even when
// it is also expired.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, opts...)
	if err != nil {
		return nil, classify(err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	// Проверяем что используется правильный алгоритм подписи
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}

// classify maps a jwt parse error onto one of the three outcomes.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
}
