package gotrue

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SessionFromRedirectURL extracts a session from an implicit-grant redirect
// URL fragment, persists it, and notifies subscribers with SIGNED_IN. When
// the fragment's redirect type is "recovery" a PASSWORD_RECOVERY event
// follows. The user record is fetched with the extracted access token.
//
// Returns a SessionMissingError when the client is not configured with
// DetectSessionInURL or the URL carries no token fragment.
func (c *Client) SessionFromRedirectURL(ctx context.Context, rawURL string) (*Session, error) {
	if !c.detectSessionInURL {
		return nil, &SessionMissingError{}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to parse redirect URL: %w", err)
	}
	fragment, err := url.ParseQuery(parsed.Fragment)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to parse URL fragment: %w", err)
	}

	if errCode := fragment.Get("error"); errCode != "" {
		return nil, &Error{
			Code:    errCode,
			Message: fragment.Get("error_description"),
		}
	}

	accessToken := fragment.Get("access_token")
	refreshToken := fragment.Get("refresh_token")
	if accessToken == "" || refreshToken == "" {
		return nil, &SessionMissingError{}
	}

	expiresIn, _ := strconv.ParseInt(fragment.Get("expires_in"), 10, 64)

	user, err := c.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	session := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    fragment.Get("token_type"),
		ExpiresIn:    expiresIn,
		ExpiresAt:    time.Now().Unix() + expiresIn,
		User:         user,
	}

	if err := c.saveSession(session); err != nil {
		return nil, err
	}
	c.notifyAllSubscribers(SignedIn, session)

	if fragment.Get("type") == "recovery" {
		c.notifyAllSubscribers(PasswordRecovery, session)
	}

	return session, nil
}
