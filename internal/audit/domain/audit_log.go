package domain

import "time"

// AuditLog represents one recorded auth event (signup, signin, logout,
// password change, revocation).
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
