package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the caller's user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the caller's email.
	EmailKey contextKey = "email"
)

// Headers carrying the caller identity. They are set by a trusted front
// proxy; the server does not authenticate them.
const (
	UserIDHeader = "X-User-ID"
	EmailHeader  = "X-User-Email"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, UserIDKey, userID)
	}
	if email != "" {
		ctx = context.WithValue(ctx, EmailKey, strings.ToLower(email))
	}
	return ctx
}

// IdentityInterceptor copies the identity headers into the request context.
// Requests without them proceed anonymously.
func IdentityInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID := strings.TrimSpace(req.Header().Get(UserIDHeader))
			email := strings.TrimSpace(req.Header().Get(EmailHeader))
			return next(WithIdentity(ctx, userID, email), req)
		}
	}
}
