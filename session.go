package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RefreshSession exchanges a refresh token for a brand new session,
// regardless of the current session's expiry status. With an empty
// refreshToken the current session's refresh token is used. An invalid or
// absent refresh token surfaces as a SessionMissingError.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		// Read the stored session directly: going through GetSession here
		// would refresh an expired session once already, rotating the token
		// before the explicit exchange below.
		session, err := c.loadSession()
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, &SessionMissingError{}
		}
		refreshToken = session.RefreshToken
	}
	return c.callRefreshToken(ctx, refreshToken)
}

// callRefreshToken is the single refresh path backing RefreshSession,
// SetSession's expired branch and transparent re-auth in GetSession: require
// a refresh token, exchange it, require a session in the response, persist
// it and emit TOKEN_REFRESHED.
func (c *Client) callRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, &SessionMissingError{}
	}

	session, err := c.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &SessionMissingError{}
	}

	if err := c.saveSession(session); err != nil {
		return nil, err
	}
	c.notifyAllSubscribers(TokenRefreshed, session)

	return session, nil
}

// refreshAccessToken performs the refresh_token grant. No retry: the server
// rotates refresh tokens, so replaying a failed exchange is never safe.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	respBody, err := c.call(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body)
	if err != nil {
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal(respBody, session); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode response: %w", err)
	}
	return session, nil
}

// SetSession installs a session from externally held tokens. Both tokens
// must be non-empty or a SessionMissingError is returned before any network
// call.
//
// If the access token has already expired (or carries no exp claim) the
// refresh path is taken. Otherwise the user is fetched with the given access
// token and the session is reassembled from the existing token pair, the
// fresh user record and the claim-derived expiry, then persisted with a
// SIGNED_IN event.
func (c *Client) SetSession(ctx context.Context, accessToken, refreshToken string) (*AuthResponse, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, &SessionMissingError{}
	}

	now := time.Now().Unix()
	expiresAt := now
	hasExpired := true
	if claims, err := DecodeAccessToken(accessToken); err == nil {
		if exp := claims.expiresAt(); exp > 0 {
			expiresAt = exp
			hasExpired = exp <= now
		}
	}

	if hasExpired {
		session, err := c.callRefreshToken(ctx, refreshToken)
		if err != nil {
			return nil, err
		}
		return &AuthResponse{User: session.User, Session: session}, nil
	}

	user, err := c.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	session := &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    expiresAt - now,
		ExpiresAt:    expiresAt,
		User:         user,
	}

	if err := c.saveSession(session); err != nil {
		return nil, err
	}
	c.notifyAllSubscribers(SignedIn, session)

	return &AuthResponse{User: user, Session: session}, nil
}

// SignOut signs the current user out. The server-side token revocation is
// best effort: revocation failures are logged and swallowed, the local
// session is always cleared, and SIGNED_OUT is always emitted. With an empty
// jwt the access token is resolved from the current session; without any
// session only the local cleanup happens.
//
// A user's access token cannot be revoked before it expires, so keep access
// token lifetimes short.
func (c *Client) SignOut(ctx context.Context, jwt string) error {
	token, err := c.resolveToken(ctx, jwt)
	if err != nil && !IsSessionMissing(err) {
		return err
	}

	if token != "" {
		if err := c.Admin.SignOut(ctx, token); err != nil {
			c.logger.DebugContext(ctx, "gotrue sign-out revocation failed", "error", err)
		}
	}

	if err := c.removeSession(); err != nil {
		return err
	}
	c.notifyAllSubscribers(SignedOut, nil)

	return nil
}
