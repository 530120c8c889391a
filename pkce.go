package gotrue

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// PKCEChallenge holds a PKCE verifier and challenge pair per RFC 7636. The
// verifier stays client-side; the challenge is sent to the server.
type PKCEChallenge struct {
	// Verifier is the high-entropy random string (kept secret)
	Verifier string

	// Challenge is the base64url-encoded SHA256 hash of the verifier
	Challenge string

	// Method is always "s256"
	Method string
}

// GeneratePKCEChallenge creates a new code verifier and its S256 challenge.
func GeneratePKCEChallenge() (*PKCEChallenge, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("gotrue: failed to generate PKCE verifier: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(buf)

	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	return &PKCEChallenge{
		Verifier:  verifier,
		Challenge: challenge,
		Method:    "s256",
	}, nil
}

// codeVerifierKey derives the storage key PKCE verifiers are stashed under
// between the request and callback legs of a flow.
func (c *Client) codeVerifierKey() string {
	return c.storageKey + "-code-verifier"
}
