package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("requires an identifier", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		_, err := client.Admin.CreateUser(context.Background(), AdminCreateUserRequest{Password: "secret"})
		require.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("creates a confirmed user with metadata", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/admin/users", r.URL.Path)

			var req AdminCreateUserRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "user@example.com", req.Email)
			require.True(t, req.EmailConfirm)
			require.Equal(t, "Yoda", req.UserMetadata["name"])

			w.Write([]byte(`{"id": "user-1", "email": "user@example.com"}`))
		}))

		user, err := client.Admin.CreateUser(context.Background(), AdminCreateUserRequest{
			Email:        "user@example.com",
			Password:     "secret",
			EmailConfirm: true,
			UserMetadata: map[string]any{"name": "Yoda"},
		})
		require.NoError(t, err)
		require.Equal(t, "user-1", user.ID)
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("requires a user id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		err := client.Admin.DeleteUser(context.Background(), "")
		require.True(t, IsAuthError(err))
	})

	t.Run("deletes by id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/admin/users/user-1", r.URL.Path)
			w.Write([]byte(`{}`))
		}))

		require.NoError(t, client.Admin.DeleteUser(context.Background(), "user-1"))
	})
}

func TestAdminListUsers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("per_page"))
		w.Write([]byte(`{"users": [{"id": "user-1"}, {"id": "user-2"}], "aud": "authenticated"}`))
	}))

	list, err := client.Admin.ListUsers(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	require.Equal(t, "authenticated", list.Aud)
}

func TestAdminGenerateLink(t *testing.T) {
	t.Parallel()

	t.Run("validation per link type", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		_, err := client.Admin.GenerateLink(context.Background(), GenerateLinkRequest{Type: "bogus", Email: "a@b.c"})
		require.True(t, IsAuthError(err))

		_, err = client.Admin.GenerateLink(context.Background(), GenerateLinkRequest{Type: LinkTypeRecovery})
		require.True(t, IsAuthError(err))

		_, err = client.Admin.GenerateLink(context.Background(), GenerateLinkRequest{
			Type:  LinkTypeEmailChangeNew,
			Email: "a@b.c",
		})
		require.True(t, IsAuthError(err))
	})

	t.Run("mints a recovery link", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/admin/generate_link", r.URL.Path)

			var req GenerateLinkRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, LinkTypeRecovery, req.Type)

			w.Write([]byte(`{
				"action_link": "https://myproject.supabase.co/auth/v1/verify?token=...",
				"email_otp": "123456",
				"hashed_token": "abc",
				"verification_type": "recovery",
				"id": "user-1"
			}`))
		}))

		link, err := client.Admin.GenerateLink(context.Background(), GenerateLinkRequest{
			Type:  LinkTypeRecovery,
			Email: "user@example.com",
		})
		require.NoError(t, err)
		require.Contains(t, link.ActionLink, "/verify")
		require.Equal(t, "recovery", link.VerificationType)
		require.Equal(t, "user-1", link.User.ID)
	})
}

func TestAdminInviteUserByEmail(t *testing.T) {
	t.Parallel()

	t.Run("requires an email", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		_, err := client.Admin.InviteUserByEmail(context.Background(), "", nil)
		require.True(t, IsAuthError(err))
	})

	t.Run("invites with metadata and redirect", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/invite", r.URL.Path)
			require.Equal(t, "https://app.example.com", r.URL.Query().Get("redirect_to"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "user@example.com", body["email"])

			w.Write([]byte(`{"id": "user-1", "email": "user@example.com"}`))
		}))

		user, err := client.Admin.InviteUserByEmail(context.Background(), "user@example.com", &InviteOptions{
			Data:       map[string]any{"team": "ops"},
			RedirectTo: "https://app.example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "user-1", user.ID)
	})
}
