package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/usersvc/internal/server/apierr"
	"github.com/iudanet/usersvc/internal/server/token"
)

// AuthHeader - заголовок, в котором клиент передает токен
const AuthHeader = "Authorization"

const bearerPrefix = "Bearer "

// TokenVerifier проверяет токен и возвращает claims
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// AuthMiddleware создает middleware для проверки токена.
// Значение заголовка целиком считается токеном; префикс "Bearer " допускается
// и отбрасывается. Проверенные claims кладутся в контекст запроса.
func AuthMiddleware(logger *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			values, ok := r.Header[http.CanonicalHeaderKey(AuthHeader)]
			if !ok || len(values) == 0 {
				logger.WarnContext(ctx, "missing authorization header", slog.String("path", r.URL.Path))
				apierr.Write(w, apierr.NewStatusError(http.StatusBadRequest, `Missing request header "`+AuthHeader+`"`))
				return
			}

			tokenString := values[0]
			if len(tokenString) >= len(bearerPrefix) && strings.EqualFold(tokenString[:len(bearerPrefix)], bearerPrefix) {
				tokenString = tokenString[len(bearerPrefix):]
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				kind := classify(err)
				if kind == apierr.KindInternal {
					logger.ErrorContext(ctx, "token verification failed", slog.Any("error", err))
				} else {
					logger.WarnContext(ctx, "token rejected",
						slog.String("reason", kind.String()),
						slog.Any("error", err))
				}
				apierr.Write(w, apierr.Wrap(kind, err))
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.Int64("user_id", claims.UserID),
				slog.String("email", claims.Email))

			// Передаем запрос дальше с claims в контексте
			next.ServeHTTP(w, r.WithContext(token.NewContext(ctx, claims)))
		})
	}
}

func classify(err error) apierr.Kind {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return apierr.KindTokenExpired
	case errors.Is(err, token.ErrTokenInvalid):
		return apierr.KindTokenInvalid
	default:
		return apierr.KindInternal
	}
}
