// Package handler exposes administrative read endpoints over HTTP/JSON.
// Access is decided by the policy engine, not by hardcoded role checks.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	auditdomain "baaisahab/backend/internal/audit/domain"
	auditrepo "baaisahab/backend/internal/audit/repository"
	"baaisahab/backend/internal/policy/engine"
	"baaisahab/backend/internal/server/middleware"
)

// Counter reports how many rows a store holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Handler serves the admin endpoints.
type Handler struct {
	users    Counter
	sessions Counter
	audits   auditrepo.Repository
	policy   engine.Evaluator
}

// NewHandler returns an admin Handler.
func NewHandler(users, sessions Counter, audits auditrepo.Repository, policy engine.Evaluator) *Handler {
	return &Handler{users: users, sessions: sessions, audits: audits, policy: policy}
}

// authorize runs the policy check for the authenticated user. It writes the
// response on denial and reports whether the request may proceed.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action string) bool {
	u := middleware.UserFrom(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return false
	}
	allowed, err := h.policy.Allow(r.Context(), string(u.Role), action)
	if err != nil {
		log.Printf("admin: policy check: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "permission denied")
		return false
	}
	return true
}

type statsResponse struct {
	Users    int64 `json:"users"`
	Sessions int64 `json:"sessions"`
}

// Stats handles GET /admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "stats.read") {
		return
	}
	users, err := h.users.Count(r.Context())
	if err != nil {
		log.Printf("admin: count users: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	sessions, err := h.sessions.Count(r.Context())
	if err != nil {
		log.Printf("admin: count sessions: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Users: users, Sessions: sessions})
}

type auditEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	Metadata  string `json:"metadata,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Audit handles GET /admin/audit?user_id=...&limit=...&offset=....
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r, "audit.read") {
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	limit := queryInt32(r, "limit", 50)
	offset := queryInt32(r, "offset", 0)

	logs, err := h.audits.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("admin: list audit logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	out := make([]auditEntry, 0, len(logs))
	for _, a := range logs {
		out = append(out, toAuditEntry(a))
	}
	writeJSON(w, http.StatusOK, map[string][]auditEntry{"logs": out})
}

func toAuditEntry(a *auditdomain.AuditLog) auditEntry {
	return auditEntry{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Resource:  a.Resource,
		Metadata:  a.Metadata,
		IPAddress: a.IP,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return def
	}
	return int32(n)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
