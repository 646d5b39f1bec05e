package service

// Code is the closed set of validation outcomes a credential can produce.
// Values are the wire codes returned to clients; they carry no internal
// detail. CodeNone means the credential validated.
type Code string

const (
	CodeNone Code = ""

	// CodeMissingToken: no credential was presented.
	CodeMissingToken Code = "missing_token"
	// CodeInvalidEncrypted: the outer envelope could not be decrypted.
	CodeInvalidEncrypted Code = "invalid_encrypted"
	// CodeTokenExpired: the signed claims have expired.
	CodeTokenExpired Code = "token_expired"
	// CodeInvalidToken: the signed claims are malformed or the signature does not verify.
	CodeInvalidToken Code = "invalid_token"
	// CodeInvalidType: the claims carry an unexpected token kind.
	CodeInvalidType Code = "invalid_type"
	// CodeUserIDMissing: the claims carry no user id.
	CodeUserIDMissing Code = "user_id_missing"
	// CodeUserNotFound: the claims' user no longer exists.
	CodeUserNotFound Code = "user_not_found"
	// CodeSessionIDMissing: the claims carry no session id (legacy
	// identity-only token). The resolved user accompanies this code.
	CodeSessionIDMissing Code = "session_id_missing"
	// CodeSessionNotFound: the session was hard-revoked or never existed.
	CodeSessionNotFound Code = "session_not_found"
	// CodeSessionOwnerMismatch: the session belongs to a different user.
	CodeSessionOwnerMismatch Code = "session_owner_mismatch"
	// CodeSessionVersionMismatch: the session was soft-revoked after this
	// credential was minted.
	CodeSessionVersionMismatch Code = "session_version_mismatch"
)

// String returns the wire form of the code.
func (c Code) String() string { return string(c) }
