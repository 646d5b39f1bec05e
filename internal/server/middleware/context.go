package middleware

import (
	"context"

	sessiondomain "baaisahab/backend/internal/session/domain"
	userdomain "baaisahab/backend/internal/user/domain"
)

type contextKey struct{ name string }

var (
	userKey     = contextKey{"user"}
	sessionKey  = contextKey{"session"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context carrying the authenticated user and, when the
// credential was session-bound, its session. Handlers read these via UserFrom
// and SessionFrom.
func WithIdentity(ctx context.Context, u *userdomain.User, s *sessiondomain.Session) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	if s != nil {
		ctx = context.WithValue(ctx, sessionKey, s)
	}
	return ctx
}

// UserFrom returns the authenticated user from ctx, or nil.
func UserFrom(ctx context.Context) *userdomain.User {
	u, _ := ctx.Value(userKey).(*userdomain.User)
	return u
}

// SessionFrom returns the authenticated session from ctx, or nil when the
// credential carried no session binding.
func SessionFrom(ctx context.Context) *sessiondomain.Session {
	s, _ := ctx.Value(sessionKey).(*sessiondomain.Session)
	return s
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from ctx, or "unknown".
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}
