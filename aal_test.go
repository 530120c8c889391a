package gotrue

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func userWithFactorsHandler(t *testing.T, factorsJSON string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		w.Write([]byte(`{"id": "user-1", "email": "user@example.com", "factors": ` + factorsJSON + `}`))
	})
}

func TestListFactors(t *testing.T) {
	t.Parallel()

	t.Run("totp subset is verified totp factors only", func(t *testing.T) {
		client := newTestClient(t, userWithFactorsHandler(t, `[
			{"id": "f1", "factor_type": "totp", "status": "verified"},
			{"id": "f2", "factor_type": "totp", "status": "unverified"},
			{"id": "f3", "factor_type": "phone", "status": "verified"}
		]`))

		list, err := client.ListFactors(context.Background(), "jwt")
		require.NoError(t, err)
		require.Len(t, list.All, 3)
		require.Len(t, list.TOTP, 1)
		require.Equal(t, "f1", list.TOTP[0].ID)
	})

	t.Run("no factors yields empty lists", func(t *testing.T) {
		client := newTestClient(t, userWithFactorsHandler(t, `[]`))

		list, err := client.ListFactors(context.Background(), "jwt")
		require.NoError(t, err)
		require.Empty(t, list.All)
		require.Empty(t, list.TOTP)
	})

	t.Run("getUser errors propagate", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
		}))

		_, err := client.ListFactors(context.Background(), "bad-jwt")
		require.True(t, IsAuthError(err))
	})
}

func TestGetAuthenticatorAssuranceLevel(t *testing.T) {
	t.Parallel()

	t.Run("requires a token", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected network call")
		}))

		_, err := client.GetAuthenticatorAssuranceLevel(context.Background(), "")
		require.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("no verified factors keeps the current level", func(t *testing.T) {
		client := newTestClient(t, userWithFactorsHandler(t, `[
			{"id": "f1", "factor_type": "totp", "status": "unverified"}
		]`))

		amr := []AMREntry{{Method: "password", Timestamp: time.Now().Unix()}}
		token := makeAccessToken(t, time.Now().Add(time.Hour), AAL1, amr)

		aal, err := client.GetAuthenticatorAssuranceLevel(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, AAL1, aal.CurrentLevel)
		require.Equal(t, AAL1, aal.NextLevel)
		require.Equal(t, "password", aal.CurrentAuthenticationMethods[0].Method)
	})

	t.Run("a verified factor forces the next level to aal2", func(t *testing.T) {
		client := newTestClient(t, userWithFactorsHandler(t, `[
			{"id": "f1", "factor_type": "totp", "status": "verified"}
		]`))

		token := makeAccessToken(t, time.Now().Add(time.Hour), AAL1, nil)

		aal, err := client.GetAuthenticatorAssuranceLevel(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, AAL1, aal.CurrentLevel)
		require.Equal(t, AAL2, aal.NextLevel)
		require.Empty(t, aal.CurrentAuthenticationMethods)
	})

	t.Run("getUser errors surface", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
		}))

		token := makeAccessToken(t, time.Now().Add(time.Hour), AAL1, nil)
		_, err := client.GetAuthenticatorAssuranceLevel(context.Background(), token)
		require.True(t, IsAuthError(err))
	})
}
