package gotrue

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AMREntry is one authentication-method record from a token's amr claim.
type AMREntry struct {
	Method    string `json:"method"`
	Timestamp int64  `json:"timestamp"`
}

// AccessTokenClaims are the claims the client reads from a GoTrue access
// token. The token is decoded without signature verification: the client
// only needs expiry and assurance-level information, and the server remains
// the authority on token validity.
type AccessTokenClaims struct {
	jwt.RegisteredClaims

	// SessionID is the server-side session identifier
	SessionID string `json:"session_id,omitempty"`

	// AuthenticatorAssuranceLevel is the aal claim ("aal1" or "aal2")
	AuthenticatorAssuranceLevel string `json:"aal,omitempty"`

	// AuthenticationMethods is the ordered amr claim
	AuthenticationMethods []AMREntry `json:"amr,omitempty"`
}

// DecodeAccessToken decodes the payload segment of a signed access token
// without verifying its signature. It fails on structurally malformed
// tokens only; an expired token decodes fine.
func DecodeAccessToken(accessToken string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode access token: %w", err)
	}
	return claims, nil
}

// expiresAt returns the exp claim as epoch seconds, or 0 when absent.
func (c *AccessTokenClaims) expiresAt() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}
