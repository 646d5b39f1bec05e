// Package server composes the HTTP API from the per-domain handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminhandler "baaisahab/backend/internal/admin/handler"
	authhandler "baaisahab/backend/internal/auth/handler"
	healthhandler "baaisahab/backend/internal/health/handler"
	"baaisahab/backend/internal/server/middleware"
)

// Deps holds the handlers and the credential validator for the router.
type Deps struct {
	Auth      *authhandler.Handler
	Admin     *adminhandler.Handler
	Health    *healthhandler.Handler
	Validator middleware.Validator
}

// NewRouter builds the API router.
//
// Route → handler mapping:
//   - POST /auth/signup              → internal/auth/handler (public)
//   - POST /auth/signin              → internal/auth/handler (public)
//   - POST /auth/logout              → internal/auth/handler
//   - POST /auth/change-password     → internal/auth/handler
//   - POST /auth/revoke-all-sessions → internal/auth/handler
//   - GET  /admin/stats              → internal/admin/handler
//   - GET  /admin/audit              → internal/admin/handler
//   - GET  /health                   → internal/health/handler (public)
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Telemetry())

	r.Get("/health", deps.Health.Health)
	r.Post("/auth/signup", deps.Auth.Signup)
	r.Post("/auth/signin", deps.Auth.Signin)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticate(deps.Validator))
		protected.Post("/auth/logout", deps.Auth.Logout)
		protected.Post("/auth/change-password", deps.Auth.ChangePassword)
		protected.Post("/auth/revoke-all-sessions", deps.Auth.RevokeAllSessions)
		protected.Get("/admin/stats", deps.Admin.Stats)
		protected.Get("/admin/audit", deps.Admin.Audit)
	})
	return r
}
