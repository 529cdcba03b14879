package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"binary-options-terminal/session"
)

func makeToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": userID}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestSession(t *testing.T) *session.Manager {
	t.Helper()
	sess, err := session.NewManager(context.Background(), nil)
	require.NoError(t, err)
	return sess
}

func TestLoginAdoptsToken(t *testing.T) {
	token := makeToken(t, "user-123")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, endpointLogin, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.c", req.Email)

		json.NewEncoder(w).Encode(LoginResponse{Token: token})
	}))
	defer server.Close()

	sess := newTestSession(t)
	client := NewClient(server.URL, sess)

	require.NoError(t, client.Login(context.Background(), "a@b.c", "pw"))
	require.True(t, sess.Authenticated())
	require.Equal(t, "user-123", sess.UserID())
}

func TestBearerTokenAttached(t *testing.T) {
	token := makeToken(t, "user-123")
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	sess := newTestSession(t)
	require.NoError(t, sess.SetToken(context.Background(), token))
	client := NewClient(server.URL, sess)

	_, err := client.FetchTrades(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer "+token, gotAuth)
}

func TestUnauthorizedInvalidatesSessionOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sess := newTestSession(t)
	require.NoError(t, sess.SetToken(context.Background(), makeToken(t, "user-123")))
	client := NewClient(server.URL, sess)

	// Due 401 consecutivi: un solo evento, nessun panic alla seconda chiusura
	_, err := client.FetchTrades(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = client.FetchDeposits(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	select {
	case <-sess.Unauthenticated():
	default:
		t.Fatal("evento unauthenticated non emesso dopo il 401")
	}
	require.False(t, sess.Authenticated())
}

func TestBackendErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "importo non valido"})
	}))
	defer server.Close()

	client := NewClient(server.URL, newTestSession(t))
	_, err := client.FetchTrades(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "importo non valido")
}
