package repository

import (
	"context"

	"baaisahab/backend/internal/session/domain"
)

// Repository defines persistence for sessions. Every operation touches a
// single row (or the rows of a single user); no cross-session transaction is
// ever required.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// RotateVersion assigns a fresh version id to the session and returns the
	// updated row, or nil if the session does not exist.
	RotateVersion(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes the session row. Returns true if a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	Count(ctx context.Context) (int64, error)
}
