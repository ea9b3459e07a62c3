package api

import (
	"context"
)

type contextKey string

const userContextKey contextKey = "api_user"

// UserFromContext extracts the authenticated user id from context, or ""
// for an anonymous request
func UserFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(userContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// ContextWithUser adds the authenticated user id to context
func ContextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}
