package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"baaisahab/backend/internal/auth/service"
	sessiondomain "baaisahab/backend/internal/session/domain"
	userdomain "baaisahab/backend/internal/user/domain"
)

const bearerPrefix = "bearer "

// Validator resolves a bearer credential into an identity.
type Validator interface {
	Validate(ctx context.Context, credential, expectedKind string) (*userdomain.User, *sessiondomain.Session, service.Code, error)
}

// Authenticate returns middleware that validates the Bearer credential from
// the Authorization header and puts the resolved user and session in the
// request context. Any rejection code yields 401 with the code in the body;
// store faults yield 500.
func Authenticate(v Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := extractBearer(r)
			u, sess, code, err := v.Validate(r.Context(), credential, "")
			if err != nil {
				log.Printf("auth: validate: %v", err)
				writeAuthError(w, http.StatusInternalServerError, "internal server error", "")
				return
			}
			if code != service.CodeNone {
				detail := "invalid or expired token"
				if code == service.CodeMissingToken {
					detail = "authorization required"
				}
				writeAuthError(w, http.StatusUnauthorized, detail, string(code))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u, sess)))
		})
	}
}

// RealIP returns middleware that records the client IP in the request
// context, honoring x-forwarded-for and x-real-ip before falling back to the
// connection's remote address.
func RealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), clientIP(r))))
	})
}

func clientIP(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		if s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-Ip")); s != "" {
		return s
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return "unknown"
	}
	return host
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func writeAuthError(w http.ResponseWriter, status int, detail, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"detail": detail}
	if code != "" {
		body["error"] = code
	}
	_ = json.NewEncoder(w).Encode(body)
}
