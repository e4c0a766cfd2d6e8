package authclient

import "github.com/jrsteele09/go-auth-client/session"

// User is the descriptor returned by the register and profile endpoints.
type User struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Active           bool   `json:"is_active"`
	TwoFactorEnabled bool   `json:"is_2fa_enabled"`
}

// TwoFactorEnrollment carries the material needed to finish TOTP enrollment:
// the shared secret for manual entry and the otpauth URI for QR rendering.
type TwoFactorEnrollment struct {
	Secret        string `json:"secret"`
	EnrollmentURI string `json:"otpauth_url"`
}

// LoginResult is the tagged outcome of a login exchange. Exactly one of the
// two variants applies: tokens were issued, or the service wants a second
// factor before issuing anything. The branch is decided here, at the client
// boundary, so callers never inspect transport-level status codes.
type LoginResult struct {
	// SecondFactorRequired marks the no-tokens branch: the password was
	// accepted but a TOTP code must be supplied on the next attempt.
	SecondFactorRequired bool

	// Tokens is set only when SecondFactorRequired is false.
	Tokens *session.TokenPair

	// User is the inline user object, when the service includes one.
	User *User
}
