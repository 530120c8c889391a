package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SignUp creates a new user.
//
// When the server has autoconfirm enabled the response carries a session and
// the user is signed in immediately; otherwise only the user record comes
// back and the session is nil until the user confirms. Be aware that if an
// account already exists the server may return a response that hides this
// from the caller.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := c.removeSession(); err != nil {
		return nil, err
	}

	path := "/signup"
	if req.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(req.RedirectTo)
	}

	body, err := c.call(ctx, http.MethodPost, path, "", req)
	if err != nil {
		return nil, err
	}

	resp, err := parseAuthResponse(body)
	if err != nil {
		return nil, err
	}

	if resp.Session != nil {
		if err := c.saveSession(resp.Session); err != nil {
			return nil, err
		}
		c.notifyAllSubscribers(SignedIn, resp.Session)
	}

	return resp, nil
}

// parseAuthResponse decodes a body that is either a session (with embedded
// user) or a bare user record, depending on server-side confirmation
// settings.
func parseAuthResponse(body []byte) (*AuthResponse, error) {
	session := &Session{}
	if err := json.Unmarshal(body, session); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode response: %w", err)
	}
	if session.AccessToken != "" {
		return &AuthResponse{User: session.User, Session: session}, nil
	}

	user := &User{}
	if err := json.Unmarshal(body, user); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode response: %w", err)
	}
	return &AuthResponse{User: user}, nil
}
