// Package service implements the session-bound credential lifecycle: issuing
// encrypted bearer tokens, validating them through a fixed pipeline, and
// revoking the sessions they are bound to.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"baaisahab/backend/internal/audit"
	"baaisahab/backend/internal/security"
	sessiondomain "baaisahab/backend/internal/session/domain"
	userdomain "baaisahab/backend/internal/user/domain"
	userrepo "baaisahab/backend/internal/user/repository"
)

// Sentinel errors for auth flows; the handler maps them to HTTP statuses.
var (
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByPhone(ctx context.Context, phone string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	RotateVersion(ctx context.Context, id string) (*sessiondomain.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*sessiondomain.Session, error)
}

// AuthService mints, validates, and revokes session-bound credentials, and
// implements the signup/signin/change-password account flows on top of them.
type AuthService struct {
	users    UserRepo
	sessions SessionRepo
	codec    *security.ClaimsCodec
	cipher   *security.EnvelopeCipher
	hasher   *security.Hasher
	audit    audit.AuditLogger

	accessTTL            time.Duration
	strictSessionBinding bool
}

// Option configures the AuthService.
type Option func(*AuthService)

// WithStrictSessionBinding makes Validate withhold the resolved user when a
// credential's claims carry no session id, effectively killing legacy
// identity-only tokens. Default is to return the user alongside
// CodeSessionIDMissing.
func WithStrictSessionBinding() Option {
	return func(s *AuthService) { s.strictSessionBinding = true }
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be audit.Nop() when no audit trail is wanted.
func NewAuthService(
	users UserRepo,
	sessions SessionRepo,
	codec *security.ClaimsCodec,
	cipher *security.EnvelopeCipher,
	hasher *security.Hasher,
	auditLogger audit.AuditLogger,
	accessTTL time.Duration,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		users:     users,
		sessions:  sessions,
		codec:     codec,
		cipher:    cipher,
		hasher:    hasher,
		audit:     auditLogger,
		accessTTL: accessTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a user with a hashed password, then mints a session and
// credential for it. Returns ErrPhoneTaken when the phone number is already
// registered.
func (s *AuthService) Signup(ctx context.Context, name, phone, password string) (*userdomain.User, *sessiondomain.Session, string, error) {
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, nil, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &userdomain.User{
		ID:           uuid.New().String(),
		Name:         name,
		PhoneNumber:  phone,
		PasswordHash: hashed,
		Role:         userdomain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, nil, "", err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicatePhone) {
			return nil, nil, "", ErrPhoneTaken
		}
		return nil, nil, "", fmt.Errorf("create user: %w", err)
	}
	sess, credential, err := s.issueFor(ctx, u)
	if err != nil {
		return nil, nil, "", err
	}
	s.audit.LogEvent(ctx, u.ID, "signup", "user", "")
	return u, sess, credential, nil
}

// Signin verifies phone/password and mints a fresh session and credential.
// Any mismatch yields ErrInvalidCredentials; callers must not reveal which
// part failed.
func (s *AuthService) Signin(ctx context.Context, phone, password string) (*userdomain.User, *sessiondomain.Session, string, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		s.audit.LogEvent(ctx, "", "signin_failure", "session", fmt.Sprintf(`{"phone_number":%q}`, phone))
		return nil, nil, "", ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		s.audit.LogEvent(ctx, u.ID, "signin_failure", "session", "")
		return nil, nil, "", ErrInvalidCredentials
	}
	sess, credential, err := s.issueFor(ctx, u)
	if err != nil {
		return nil, nil, "", err
	}
	s.audit.LogEvent(ctx, u.ID, "signin", "session", fmt.Sprintf(`{"session_id":%q}`, sess.ID))
	return u, sess, credential, nil
}

// Issue mints a new session and credential for the user with the given id.
// Returns ErrUserNotFound when the user does not exist.
func (s *AuthService) Issue(ctx context.Context, userID string) (*sessiondomain.Session, string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, "", ErrUserNotFound
	}
	return s.issueFor(ctx, u)
}

// issueFor creates the session row (the durable side effect) and seals the
// signed claims into the credential (the only copy of the claims; there is
// no recovery if the caller loses it).
func (s *AuthService) issueFor(ctx context.Context, u *userdomain.User) (*sessiondomain.Session, string, error) {
	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		VersionID: uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	signed, err := s.codec.Sign(security.AccessClaims{
		UserID:           u.ID,
		PhoneNumber:      u.PhoneNumber,
		Kind:             security.KindAccess,
		SessionID:        sess.ID,
		SessionVersionID: sess.VersionID,
		IssuedAt:         now,
		ExpiresAt:        now.Add(s.accessTTL),
	})
	if err != nil {
		return nil, "", fmt.Errorf("sign claims: %w", err)
	}
	credential, err := s.cipher.Encrypt([]byte(signed))
	if err != nil {
		return nil, "", fmt.Errorf("seal credential: %w", err)
	}
	return sess, credential, nil
}

// Validate turns an opaque bearer credential into (user, session, code).
// Checks run in a fixed order and the first failure wins, so callers always
// get the most specific applicable code. Partial results accompany
// later-stage failures: the user is returned once resolved, the session once
// looked up. The error return is non-nil only for store faults, never for a
// rejected credential.
func (s *AuthService) Validate(ctx context.Context, credential, expectedKind string) (*userdomain.User, *sessiondomain.Session, Code, error) {
	if expectedKind == "" {
		expectedKind = security.KindAccess
	}
	if credential == "" {
		return nil, nil, CodeMissingToken, nil
	}

	signed, err := s.cipher.Decrypt(credential)
	if err != nil {
		return nil, nil, CodeInvalidEncrypted, nil
	}

	claims, err := s.codec.Verify(string(signed))
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, nil, CodeTokenExpired, nil
		}
		return nil, nil, CodeInvalidToken, nil
	}

	if claims.Kind != expectedKind {
		return nil, nil, CodeInvalidType, nil
	}
	if claims.UserID == "" {
		return nil, nil, CodeUserIDMissing, nil
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, CodeNone, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return nil, nil, CodeUserNotFound, nil
	}

	if claims.SessionID == "" {
		if s.strictSessionBinding {
			return nil, nil, CodeSessionIDMissing, nil
		}
		return u, nil, CodeSessionIDMissing, nil
	}

	sess, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, CodeNone, fmt.Errorf("lookup session: %w", err)
	}
	if sess == nil {
		return u, nil, CodeSessionNotFound, nil
	}
	if sess.UserID != u.ID {
		return u, sess, CodeSessionOwnerMismatch, nil
	}
	if sess.VersionID != claims.SessionVersionID {
		return u, sess, CodeSessionVersionMismatch, nil
	}
	return u, sess, CodeNone, nil
}

// Revoke invalidates one session. Hard revocation deletes the row, so old
// credentials fail with session_not_found; soft revocation rotates the
// version id, so they fail with session_version_mismatch. Both are safe to
// retry against an already-revoked session.
func (s *AuthService) Revoke(ctx context.Context, sess *sessiondomain.Session, hard bool) error {
	if hard {
		if _, err := s.sessions.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	} else {
		if _, err := s.sessions.RotateVersion(ctx, sess.ID); err != nil {
			return fmt.Errorf("rotate session version: %w", err)
		}
	}
	s.audit.LogEvent(ctx, sess.UserID, "session_revoke", "session",
		fmt.Sprintf(`{"session_id":%q,"hard":%t}`, sess.ID, hard))
	return nil
}

// RevokeAll revokes every session of the given user and returns how many it
// touched. Per-session revocations are independent, so a failure partway
// leaves the earlier ones revoked; retrying is harmless.
func (s *AuthService) RevokeAll(ctx context.Context, userID string, hard bool) (int, error) {
	list, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	for i, sess := range list {
		if hard {
			if _, err := s.sessions.Delete(ctx, sess.ID); err != nil {
				return i, fmt.Errorf("delete session: %w", err)
			}
		} else {
			if _, err := s.sessions.RotateVersion(ctx, sess.ID); err != nil {
				return i, fmt.Errorf("rotate session version: %w", err)
			}
		}
	}
	s.audit.LogEvent(ctx, userID, "session_revoke_all", "session",
		fmt.Sprintf(`{"count":%d,"hard":%t}`, len(list), hard))
	return len(list), nil
}

// ChangePassword verifies the current password, stores a new hash, and
// soft-revokes every session of the user except keepSessionID (the session
// performing the change). Returns ErrInvalidCredentials when the current
// password does not match.
func (s *AuthService) ChangePassword(ctx context.Context, u *userdomain.User, current, newPassword, keepSessionID string) error {
	if err := s.hasher.Compare(u.PasswordHash, []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hashed, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	list, err := s.sessions.ListByUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, sess := range list {
		if sess.ID == keepSessionID {
			continue
		}
		if _, err := s.sessions.RotateVersion(ctx, sess.ID); err != nil {
			return fmt.Errorf("rotate session version: %w", err)
		}
	}
	s.audit.LogEvent(ctx, u.ID, "password_change", "user", "")
	return nil
}
