package gotrue

import (
	"context"
	"net/http"
	"time"
)

// MFAClient exposes multi-factor authentication operations for TOTP-style
// factors. A factor moves unverified → verified via a matching
// challenge+verify pair; unenrolling a verified factor requires an aal2
// session, which the server enforces.
type MFAClient struct {
	client *Client
}

// ============================================================================
// Request / Response Types
// ============================================================================

// MFAEnrollParams configure a new factor enrollment.
type MFAEnrollParams struct {
	// FactorType is the kind of factor to enroll (e.g. "totp")
	FactorType string `json:"factor_type"`

	// Issuer is the domain shown in the user's authenticator app
	Issuer string `json:"issuer,omitempty"`

	// FriendlyName labels the factor for the user
	FriendlyName string `json:"friendly_name,omitempty"`
}

// TOTPEnrollment is the QR/secret material returned for a new TOTP factor.
type TOTPEnrollment struct {
	QRCode string `json:"qr_code"`
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

// MFAEnrollResponse is the metadata of a newly created, unverified factor.
type MFAEnrollResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	FriendlyName string          `json:"friendly_name,omitempty"`
	TOTP         *TOTPEnrollment `json:"totp,omitempty"`
}

// MFAChallengeResponse is a one-time challenge for a factor.
type MFAChallengeResponse struct {
	ID        string `json:"id"`
	ExpiresAt int64  `json:"expires_at"`
}

// Expired reports whether the challenge can no longer be verified.
func (r *MFAChallengeResponse) Expired() bool {
	return r.ExpiresAt <= time.Now().Unix()
}

// MFAVerifyParams carry the challenge id and the code the user read from
// their authenticator app.
type MFAVerifyParams struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// ============================================================================
// Operations
// ============================================================================

// Enroll starts the enrollment process for a new factor. The created factor
// is unverified: present the QR code or secret to the user, then challenge
// and verify with a code from their authenticator app.
//
// Upon verifying a factor, all other sessions are logged out and the current
// session is promoted to aal2 server-side.
func (m *MFAClient) Enroll(ctx context.Context, params MFAEnrollParams, jwt string) (*MFAEnrollResponse, error) {
	if jwt == "" {
		return nil, ErrMissingToken
	}
	if params.FactorType == "" {
		return nil, NewValidationError("you must provide a factor type")
	}

	resp := &MFAEnrollResponse{}
	if err := m.client.callInto(ctx, http.MethodPost, "/factors", jwt, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Challenge prepares a one-time challenge used to verify that the user has
// access to a factor.
func (m *MFAClient) Challenge(ctx context.Context, factorID, jwt string) (*MFAChallengeResponse, error) {
	if jwt == "" {
		return nil, ErrMissingToken
	}

	resp := &MFAChallengeResponse{}
	if err := m.client.callInto(ctx, http.MethodPost, "/factors/"+factorID+"/challenge", jwt, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Verify checks a code against a challenge. On success the factor is
// promoted to verified and the server returns a fresh aal2 session.
func (m *MFAClient) Verify(ctx context.Context, factorID, jwt string, params MFAVerifyParams) (*Session, error) {
	if jwt == "" {
		return nil, ErrMissingToken
	}

	session := &Session{}
	if err := m.client.callInto(ctx, http.MethodPost, "/factors/"+factorID+"/verify", jwt, params, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ChallengeAndVerify creates a challenge and immediately verifies the given
// code against it. A failed challenge short-circuits: its error is returned
// and verify is never called.
func (m *MFAClient) ChallengeAndVerify(ctx context.Context, factorID, code, jwt string) (*Session, error) {
	challenge, err := m.Challenge(ctx, factorID, jwt)
	if err != nil {
		return nil, err
	}

	return m.Verify(ctx, factorID, jwt, MFAVerifyParams{
		ChallengeID: challenge.ID,
		Code:        code,
	})
}

// Unenroll removes a factor. The server requires an aal2 session to unenroll
// a verified factor.
func (m *MFAClient) Unenroll(ctx context.Context, factorID, jwt string) error {
	if jwt == "" {
		return ErrMissingToken
	}
	return m.client.callInto(ctx, http.MethodDelete, "/factors/"+factorID, jwt, nil, nil)
}
