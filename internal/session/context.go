// internal/session/context.go
package session

import "context"

type contextKey int

const idContextKey contextKey = iota

// WithID attaches the session ID to a request context so that a 401 from
// any backend can be traced back to the session that sent it.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idContextKey, id)
}

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idContextKey).(string)
	return id, ok && id != ""
}
