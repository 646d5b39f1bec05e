package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	auditdomain "baaisahab/backend/internal/audit/domain"
	"baaisahab/backend/internal/policy/engine"
	"baaisahab/backend/internal/server/middleware"
	userdomain "baaisahab/backend/internal/user/domain"
)

type fixedCounter int64

func (c fixedCounter) Count(context.Context) (int64, error) { return int64(c), nil }

type stubAudits struct {
	logs []*auditdomain.AuditLog
}

func (s *stubAudits) Create(context.Context, *auditdomain.AuditLog) error { return nil }

func (s *stubAudits) ListByUser(_ context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error) {
	var out []*auditdomain.AuditLog
	for _, a := range s.logs {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	eval, err := engine.NewOPAEvaluator(context.Background())
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	audits := &stubAudits{logs: []*auditdomain.AuditLog{
		{ID: "a1", UserID: "u1", Action: "signin", Resource: "session", CreatedAt: time.Now().UTC()},
		{ID: "a2", UserID: "u2", Action: "signup", Resource: "user", CreatedAt: time.Now().UTC()},
	}}
	return NewHandler(fixedCounter(7), fixedCounter(3), audits, eval)
}

func asRole(role userdomain.Role) context.Context {
	u := &userdomain.User{ID: "admin-1", Role: role}
	return middleware.WithIdentity(context.Background(), u, nil)
}

func TestStats(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil).WithContext(asRole(userdomain.RoleAdmin))
	rr := httptest.NewRecorder()
	h.Stats(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Users    int64 `json:"users"`
		Sessions int64 `json:"sessions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Users != 7 || resp.Sessions != 3 {
		t.Errorf("stats = %+v, want users=7 sessions=3", resp)
	}
}

func TestStats_Forbidden(t *testing.T) {
	h := newTestHandler(t)
	for _, role := range []userdomain.Role{userdomain.RoleUser, userdomain.RoleHelper} {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil).WithContext(asRole(role))
		rr := httptest.NewRecorder()
		h.Stats(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("role %q: status = %d, want 403", role, rr.Code)
		}
	}
}

func TestStats_NoIdentity(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rr := httptest.NewRecorder()
	h.Stats(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestAudit(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/audit?user_id=u1", nil).WithContext(asRole(userdomain.RoleAdmin))
	rr := httptest.NewRecorder()
	h.Audit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp map[string][]auditEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	logs := resp["logs"]
	if len(logs) != 1 || logs[0].ID != "a1" || logs[0].Action != "signin" {
		t.Errorf("logs = %+v, want a1/signin only", logs)
	}
}

func TestAudit_MissingUserID(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil).WithContext(asRole(userdomain.RoleAdmin))
	rr := httptest.NewRecorder()
	h.Audit(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
