package gotrue

import (
	"context"
	"net/http"
	"net/url"
)

// GetUser fetches the current user record. With an empty jwt the access
// token is resolved from the current session; a failed session lookup
// surfaces immediately without a network call.
func (c *Client) GetUser(ctx context.Context, jwt string) (*User, error) {
	token, err := c.resolveToken(ctx, jwt)
	if err != nil {
		return nil, err
	}

	user := &User{}
	if err := c.callInto(ctx, http.MethodGet, "/user", token, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserOptions tweak an UpdateUser call.
type UpdateUserOptions struct {
	// RedirectTo is appended as the redirect_to query parameter; it is used
	// in the confirmation email sent for an email change.
	RedirectTo string
}

// UpdateUser updates data for the logged in user. With an empty jwt the
// access token is resolved from the current session. On success the current
// session's embedded user is replaced and USER_UPDATED is emitted; with an
// explicit jwt and no current session there is nothing to update locally and
// no event fires.
func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes, jwt string, opts *UpdateUserOptions) (*User, error) {
	token, err := c.resolveToken(ctx, jwt)
	if err != nil {
		return nil, err
	}

	path := "/user"
	if opts != nil && opts.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(opts.RedirectTo)
	}

	user := &User{}
	if err := c.callInto(ctx, http.MethodPut, path, token, attrs, user); err != nil {
		return nil, err
	}

	c.sessionMu.Lock()
	session := c.currentSession
	if session != nil {
		session.User = user
	}
	c.sessionMu.Unlock()
	if session != nil {
		if err := c.saveSession(session); err != nil {
			return nil, err
		}
		c.notifyAllSubscribers(UserUpdated, session)
	}

	return user, nil
}
