// Package ctxutil carries request-scoped identifiers through context.
package ctxutil

import "context"

type ctxKey string

const (
	userUUIDKey  ctxKey = "user_uuid"
	requestIDKey ctxKey = "request_id"
)

// WithUserUUID stores the authenticated user's uuid in the context.
func WithUserUUID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userUUIDKey, id)
}

// UserUUIDFromCtx extracts the user uuid from the context.
// Returns "" and false if the value is missing, empty, or of the wrong type.
func UserUUIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userUUIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
