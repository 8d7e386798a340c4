package middleware

import "context"

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRole      contextKey = "actor_role"
	ctxSessionID contextKey = "session_id"
)

// UserIDFromContext returns the authenticated profile id, empty for
// anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

// RoleFromContext returns the authenticated actor's role, empty for
// anonymous requests.
func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// SessionIDFromContext returns the access token's jti. Logout revokes
// the refresh session keyed by this id.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
