package token

import "context"

// contextKey тип для ключей контекста
type contextKey struct{}

// NewContext returns a copy of ctx carrying verified claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext извлекает claims, положенные AuthMiddleware
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}
