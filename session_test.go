package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshSession(t *testing.T) {
	t.Parallel()

	t.Run("no session and no token is a session-missing error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		_, err := client.RefreshSession(context.Background(), "")
		require.True(t, IsSessionMissing(err))
	})

	t.Run("refresh persists the new session and emits one TOKEN_REFRESHED", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "old-refresh", body["refresh_token"])

			w.Write([]byte(`{
				"access_token": "new-token",
				"refresh_token": "new-refresh",
				"token_type": "bearer",
				"expires_in": 3600,
				"user": {"id": "user-1"}
			}`))
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
			require.Equal(t, "new-token", session.AccessToken)
		})

		session, err := client.RefreshSession(context.Background(), "old-refresh")
		require.NoError(t, err)
		require.Equal(t, "new-token", session.AccessToken)
		require.Equal(t, []AuthChangeEvent{TokenRefreshed}, events)

		current, err := client.GetSession(context.Background())
		require.NoError(t, err)
		require.Equal(t, "new-token", current.AccessToken)
	})

	t.Run("an expired session is exchanged exactly once", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "stored-refresh", body["refresh_token"])

			w.Write([]byte(`{
				"access_token": "new-token",
				"refresh_token": "new-refresh",
				"token_type": "bearer",
				"expires_in": 3600,
				"user": {"id": "user-1"}
			}`))
		}))

		require.NoError(t, client.saveSession(&Session{
			AccessToken:  "stale-token",
			RefreshToken: "stored-refresh",
			ExpiresAt:    time.Now().Add(-time.Hour).Unix(),
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
		})

		session, err := client.RefreshSession(context.Background(), "")
		require.NoError(t, err)
		require.Equal(t, "new-token", session.AccessToken)
		require.Equal(t, int32(1), calls.Load())
		require.Equal(t, []AuthChangeEvent{TokenRefreshed}, events)
	})

	t.Run("a response without a session is a session-missing error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))

		_, err := client.RefreshSession(context.Background(), "some-refresh")
		require.True(t, IsSessionMissing(err))
	})
}

func TestSetSession(t *testing.T) {
	t.Parallel()

	t.Run("empty tokens error before any network call", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))

		_, err := client.SetSession(context.Background(), "", "refresh")
		require.True(t, IsSessionMissing(err))

		_, err = client.SetSession(context.Background(), "access", "")
		require.True(t, IsSessionMissing(err))

		require.Zero(t, calls.Load())
	})

	t.Run("expired access token takes the refresh path", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/token", r.URL.Path)
			require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
			w.Write([]byte(`{
				"access_token": "refreshed-token",
				"refresh_token": "refreshed-refresh",
				"token_type": "bearer",
				"expires_in": 3600,
				"user": {"id": "user-1"}
			}`))
		}))

		expired := makeAccessToken(t, time.Now().Add(-time.Hour), AAL1, nil)

		resp, err := client.SetSession(context.Background(), expired, "old-refresh")
		require.NoError(t, err)
		require.Equal(t, "refreshed-token", resp.Session.AccessToken)
	})

	t.Run("a token without an exp claim is treated as expired", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/token", r.URL.Path)
			w.Write([]byte(`{
				"access_token": "refreshed-token",
				"refresh_token": "refreshed-refresh",
				"expires_in": 3600
			}`))
		}))

		resp, err := client.SetSession(context.Background(), "garbage-token", "old-refresh")
		require.NoError(t, err)
		require.Equal(t, "refreshed-token", resp.Session.AccessToken)
	})

	t.Run("live access token fetches the user and keeps the original tokens", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		live := makeAccessToken(t, exp, AAL1, nil)

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/user", r.URL.Path)
			require.Equal(t, "Bearer "+live, r.Header.Get("Authorization"))
			w.Write([]byte(`{"id": "user-1", "email": "user@example.com"}`))
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
		})

		resp, err := client.SetSession(context.Background(), live, "my-refresh")
		require.NoError(t, err)
		require.Equal(t, live, resp.Session.AccessToken)
		require.Equal(t, "my-refresh", resp.Session.RefreshToken)
		require.Equal(t, "bearer", resp.Session.TokenType)
		require.Equal(t, exp.Unix(), resp.Session.ExpiresAt)
		require.Equal(t, "user-1", resp.User.ID)
		require.Equal(t, []AuthChangeEvent{SignedIn}, events)
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	t.Run("revokes, clears and emits one SIGNED_OUT with a nil session", func(t *testing.T) {
		var revoked atomic.Bool
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/logout", r.URL.Path)
			require.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
			revoked.Store(true)
			w.WriteHeader(http.StatusNoContent)
		}))

		require.NoError(t, client.saveSession(&Session{
			AccessToken:  "my-token",
			RefreshToken: "my-refresh",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
			require.Nil(t, session)
		})

		require.NoError(t, client.SignOut(context.Background(), ""))
		require.True(t, revoked.Load())
		require.Equal(t, []AuthChangeEvent{SignedOut}, events)

		_, err := client.GetSession(context.Background())
		require.True(t, IsSessionMissing(err))
	})

	t.Run("revocation failure is swallowed", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_token","error_description":"token expired"}`))
		}))

		require.NoError(t, client.saveSession(&Session{
			AccessToken:  "stale",
			RefreshToken: "stale",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
		})

		require.NoError(t, client.SignOut(context.Background(), ""))
		require.Equal(t, []AuthChangeEvent{SignedOut}, events)
	})

	t.Run("without any session only the local cleanup happens", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		var events []AuthChangeEvent
		client.OnAuthStateChange(func(event AuthChangeEvent, session *Session) {
			events = append(events, event)
		})

		require.NoError(t, client.SignOut(context.Background(), ""))
		require.Equal(t, []AuthChangeEvent{SignedOut}, events)
	})
}
