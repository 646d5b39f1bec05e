package domain

import "time"

// Session is one login on one device. VersionID is regenerated on every soft
// revocation, which invalidates all credentials minted against the old
// version. UserID never changes after creation.
type Session struct {
	ID        string
	UserID    string
	VersionID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
