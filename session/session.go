package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the persisted session entity returned by a successful login.
// Either all three fields are present or no session exists; half-written
// pairs are never considered valid.
type TokenPair struct {
	// AccessToken is the bearer credential attached to authenticated requests.
	// Usage: "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is the longer-lived opaque credential. The exchange
	// mechanism lives server-side; the client only stores and clears it.
	RefreshToken string `json:"refresh_token"`

	// TokenType is the scheme reported by the server (always "bearer").
	TokenType string `json:"token_type"`
}

// Valid reports whether the pair is well formed. A pair missing any field is
// treated the same as no session at all.
func (t *TokenPair) Valid() bool {
	if t == nil {
		return false
	}
	return t.AccessToken != "" && t.RefreshToken != "" && t.TokenType != ""
}

// ExpiresAt returns the expiry claim of the access token without verifying
// its signature. The result is a display hint only; authenticated requests
// are always sent and the server remains the authority on token validity.
func (t *TokenPair) ExpiresAt() (time.Time, bool) {
	claims := t.peekClaims()
	if claims == nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the subject claim of the access token (the authenticated
// email in the reference service) without verifying the signature.
func (t *TokenPair) Subject() (string, bool) {
	claims := t.peekClaims()
	if claims == nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func (t *TokenPair) peekClaims() jwt.Claims {
	if !t.Valid() {
		return nil
	}
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(t.AccessToken, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	return token.Claims
}
