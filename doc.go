/*
Package gotrue provides a client SDK for a GoTrue authentication service.

# Overview

Every public method builds one HTTP request, sends it, and reshapes the JSON
response into typed results and typed errors. The server owns session
semantics; this client holds the issued token bundle, persists it through a
pluggable store, and notifies subscribers on auth state transitions.

# Creating a Client

A client is configured with a project reference (or a full URL) and an API
key:

	client, err := gotrue.New(gotrue.Config{
		ReferenceID:    "myproject",
		APIKey:         anonKey,
		PersistSession: true,
	})

For a locally hosted service, set URL directly:

	client, err := gotrue.New(gotrue.Config{
		URL:    "http://localhost:9999/auth/v1",
		APIKey: anonKey,
	})

# Authentication

Sign up and sign in return the server-issued session, which the client
stores as the current session:

	resp, err := client.SignUp(ctx, gotrue.SignUpRequest{
		Email:    "user@example.com",
		Password: "secret",
	})

	session, err := client.SignInWithPassword(ctx, gotrue.PasswordCredentials{
		Email:    "user@example.com",
		Password: "secret",
	})

	// Magic link / one-time password
	_, err = client.SignInWithOTP(ctx, gotrue.OTPCredentials{
		Email:      "user@example.com",
		CreateUser: true,
	})

Methods that need an access token accept one explicitly; pass "" to resolve
it from the current session:

	user, err := client.GetUser(ctx, "")

# Sessions

GetSession returns the current session, refreshing it transparently when it
has expired (unless auto refresh is disabled). RefreshSession forces a new
session, and SetSession installs one from externally held tokens, refreshing
first if the access token already expired:

	resp, err := client.SetSession(ctx, accessToken, refreshToken)

Sessions persist through the SessionStorage interface when PersistSession is
set, keyed by the configured storage key. The default store is in-memory;
storage/sqlitestore provides a file-backed one.

# Auth State Changes

Subscribers receive every state transition synchronously:

	sub := client.OnAuthStateChange(func(event gotrue.AuthChangeEvent, session *gotrue.Session) {
		log.Println("auth event:", event)
	})
	defer sub.Unsubscribe()

Events are SIGNED_IN, SIGNED_OUT, TOKEN_REFRESHED, USER_UPDATED and
PASSWORD_RECOVERY.

# Error Handling

Errors classified as auth-domain outcomes are typed: *Error for validation
failures and server error responses, *SessionMissingError when no usable
session or refresh token exists. Anything else (transport faults, malformed
bodies) is an unexpected error and does not satisfy IsAuthError:

	_, err := client.SignInWithPassword(ctx, creds)
	if err != nil {
		var authErr *gotrue.Error
		if errors.As(err, &authErr) {
			// Sign-in rejected by the server
		} else {
			// Unexpected fault, propagate
			return err
		}
	}

# Admin Operations

client.Admin exposes privileged user management. It requires the client to
be constructed with the service key and must only be used server-side:

	user, err := client.Admin.CreateUser(ctx, gotrue.AdminCreateUserRequest{
		Email:        "user@example.com",
		Password:     "secret",
		EmailConfirm: true,
	})

	page, err := client.Admin.ListUsers(ctx, 1, 50)

	link, err := client.Admin.GenerateLink(ctx, gotrue.GenerateLinkRequest{
		Type:  gotrue.LinkTypeRecovery,
		Email: "user@example.com",
	})

# Multi-Factor Authentication

client.MFA drives the factor lifecycle. A factor starts unverified and is
promoted by a matching challenge+verify pair:

	enrolled, err := client.MFA.Enroll(ctx, gotrue.MFAEnrollParams{
		FactorType: "totp",
		Issuer:     "example.com",
	}, jwt)

	session, err := client.MFA.ChallengeAndVerify(ctx, enrolled.ID, code, jwt)

GetAuthenticatorAssuranceLevel reports the session's current level and the
level it can be raised to; a verified factor always makes aal2 reachable.

# Concurrency

A client is safe for concurrent use. Requests never share mutable header
state: the bearer token is an explicit per-call argument, and the session
reference is replaced wholesale under a lock.
*/
package gotrue
