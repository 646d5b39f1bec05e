package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KindAccess is the token kind for access credentials.
const KindAccess = "access"

var (
	// ErrMissingSigningSecret is returned when no signing secret is configured.
	ErrMissingSigningSecret = errors.New("token signing secret is not set")
	// ErrInvalidToken is returned when signed claims are malformed or the signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when the claims' expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// AccessClaims is the payload carried inside a credential: who the token is
// for, which session (and session version) it was minted against, and its
// time bounds. Claims are immutable after issuance; invalidating them means
// issuing a new credential.
type AccessClaims struct {
	UserID           string
	PhoneNumber      string
	Kind             string
	SessionID        string
	SessionVersionID string
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// wireClaims is the JSON shape of AccessClaims inside the JWS. Field names
// match the original API tokens so previously issued credentials keep parsing.
type wireClaims struct {
	UserID           string `json:"user_id"`
	PhoneNumber      string `json:"phone_number,omitempty"`
	Kind             string `json:"type"`
	SessionID        string `json:"session_id,omitempty"`
	SessionVersionID string `json:"session_version_id,omitempty"`
	jwt.RegisteredClaims
}

// ClaimsCodec signs and verifies access claims using HMAC-SHA256.
// It is stateless; a single instance is shared by all requests.
type ClaimsCodec struct {
	secret []byte
}

// NewClaimsCodec returns a codec signing with the given secret.
// Returns ErrMissingSigningSecret for an empty secret; callers treat this as
// a fatal misconfiguration at startup.
func NewClaimsCodec(secret string) (*ClaimsCodec, error) {
	if secret == "" {
		return nil, ErrMissingSigningSecret
	}
	return &ClaimsCodec{secret: []byte(secret)}, nil
}

// Sign serializes the claims and attaches an HS256 signature, producing a
// compact JWS string. No side effects.
func (c *ClaimsCodec) Sign(claims AccessClaims) (string, error) {
	wc := wireClaims{
		UserID:           claims.UserID,
		PhoneNumber:      claims.PhoneNumber,
		Kind:             claims.Kind,
		SessionID:        claims.SessionID,
		SessionVersionID: claims.SessionVersionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, wc).SignedString(c.secret)
}

// Verify checks the signature and expiry of a compact JWS and returns the
// parsed claims. Expiry is validated inside the parse so callers cannot skip
// it. Returns ErrTokenExpired when the claims have expired and ErrInvalidToken
// for any other failure (bad signature, wrong algorithm, malformed input).
func (c *ClaimsCodec) Verify(token string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &wireClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	wc, ok := parsed.Claims.(*wireClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	out := &AccessClaims{
		UserID:           wc.UserID,
		PhoneNumber:      wc.PhoneNumber,
		Kind:             wc.Kind,
		SessionID:        wc.SessionID,
		SessionVersionID: wc.SessionVersionID,
	}
	if wc.IssuedAt != nil {
		out.IssuedAt = wc.IssuedAt.Time
	}
	if wc.ExpiresAt != nil {
		out.ExpiresAt = wc.ExpiresAt.Time
	}
	return out, nil
}
