// Package handler exposes the auth flows over HTTP/JSON.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"baaisahab/backend/internal/auth/service"
	"baaisahab/backend/internal/server/middleware"
	sessiondomain "baaisahab/backend/internal/session/domain"
	userdomain "baaisahab/backend/internal/user/domain"
)

// Handler serves the auth endpoints.
type Handler struct {
	svc *service.AuthService
}

// NewHandler returns an auth Handler backed by svc.
func NewHandler(svc *service.AuthService) *Handler {
	return &Handler{svc: svc}
}

type userPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type sessionPayload struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type credentialResponse struct {
	User    userPayload    `json:"user"`
	Session sessionPayload `json:"session"`
	Token   string         `json:"token"`
}

func toCredentialResponse(u *userdomain.User, s *sessiondomain.Session, token string) credentialResponse {
	return credentialResponse{
		User: userPayload{
			ID:          u.ID,
			Name:        u.Name,
			PhoneNumber: u.PhoneNumber,
			Role:        string(u.Role),
		},
		Session: sessionPayload{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Token: token,
	}
}

type signupRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.PhoneNumber == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "phone_number and password are required", "")
		return
	}
	u, sess, token, err := h.svc.Signup(r.Context(), req.Name, req.PhoneNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneTaken):
			writeError(w, http.StatusConflict, "phone number already registered", "")
		case errors.Is(err, userdomain.ErrInvalidUser):
			writeError(w, http.StatusBadRequest, err.Error(), "")
		default:
			internalError(w, "signup", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toCredentialResponse(u, sess, token))
}

type signinRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// Signin handles POST /auth/signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	u, sess, token, err := h.svc.Signin(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid phone number or password", "")
			return
		}
		internalError(w, "signin", err)
		return
	}
	writeJSON(w, http.StatusOK, toCredentialResponse(u, sess, token))
}

// Logout handles POST /auth/logout. It hard-revokes the calling session, so
// the credential that authenticated this request is dead afterwards.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeError(w, http.StatusBadRequest, "credential is not session-bound", "")
		return
	}
	if err := h.svc.Revoke(r.Context(), sess, true); err != nil {
		internalError(w, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /auth/change-password. Every other session of
// the user is soft-revoked; the calling session stays valid.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFrom(r.Context())
	sess := middleware.SessionFrom(r.Context())
	if u == nil || sess == nil {
		writeError(w, http.StatusBadRequest, "credential is not session-bound", "")
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "new_password is required", "")
		return
	}
	if err := h.svc.ChangePassword(r.Context(), u, req.CurrentPassword, req.NewPassword, sess.ID); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "current password is incorrect", "")
			return
		}
		internalError(w, "change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "password changed"})
}

type revokeAllRequest struct {
	Hard bool `json:"hard"`
}

// RevokeAllSessions handles POST /auth/revoke-all-sessions. Soft by default;
// {"hard": true} deletes the session rows instead of rotating versions.
func (h *Handler) RevokeAllSessions(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFrom(r.Context())
	if u == nil {
		writeError(w, http.StatusBadRequest, "credential is not session-bound", "")
		return
	}
	var req revokeAllRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
	}
	n, err := h.svc.RevokeAll(r.Context(), u.ID, req.Hard)
	if err != nil {
		internalError(w, "revoke all sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"revoked": n})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail, code string) {
	body := map[string]string{"detail": detail}
	if code != "" {
		body["error"] = code
	}
	writeJSON(w, status, body)
}

func internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("auth: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal server error", "")
}
