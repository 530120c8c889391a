package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SignInWithPassword logs in an existing user with an email+password or
// phone+password pair.
//
// The server will not distinguish between a missing account, a wrong
// password, or an account that can only be accessed via another provider;
// all of these come back as the same classified error.
func (c *Client) SignInWithPassword(ctx context.Context, creds PasswordCredentials) (*Session, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	if err := c.removeSession(); err != nil {
		return nil, err
	}

	body, err := c.call(ctx, http.MethodPost, "/token?grant_type=password", "", creds)
	if err != nil {
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal(body, session); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode response: %w", err)
	}

	if session.AccessToken != "" {
		if err := c.saveSession(session); err != nil {
			return nil, err
		}
		c.notifyAllSubscribers(SignedIn, session)
	}

	return session, nil
}

// OTPResponse acknowledges an OTP or magic-link request. MessageID is only
// set for phone channels.
type OTPResponse struct {
	MessageID string `json:"message_id,omitempty"`
}

// SignInWithOTP requests a magic link or a one-time password for the given
// email or phone. No session is created until the OTP is verified; the
// return value is the server's acknowledgement.
//
// Phone sign-ins only ever send an OTP. The "whatsapp" channel requires a
// WhatsApp sender configured on the messaging provider.
func (c *Client) SignInWithOTP(ctx context.Context, creds OTPCredentials) (*OTPResponse, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	if err := c.removeSession(); err != nil {
		return nil, err
	}

	path := "/otp"
	if creds.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(creds.RedirectTo)
	}

	resp := &OTPResponse{}
	if err := c.callInto(ctx, http.MethodPost, path, "", creds, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
