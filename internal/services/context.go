// internal/services/context.go
package services

import "context"

type contextKey int

const (
	tokenContextKey contextKey = iota
	requestIDContextKey
)

// WithToken returns a context carrying the session's bearer token. Every
// request issued from that context sends it as "Authorization: Bearer <token>".
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok && token != ""
}

// WithRequestID returns a context carrying the inbound request's correlation
// ID, propagated to backend services as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok && id != ""
}
