package session

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"binary-options-terminal/models"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeUserID(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"id": "user-123"})
	id, err := DecodeUserID(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", id)
}

func TestDecodeUserIDFallbackClaims(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"sub": "user-456"})
	id, err := DecodeUserID(token)
	require.NoError(t, err)
	require.Equal(t, "user-456", id)
}

func TestDecodeUserIDMissingClaim(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"email": "a@b.c"})
	_, err := DecodeUserID(token)
	require.Error(t, err)
}

func TestDecodeUserIDGarbage(t *testing.T) {
	_, err := DecodeUserID("non-un-token")
	require.Error(t, err)
}

func TestManagerAdoptToken(t *testing.T) {
	m, err := NewManager(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, m.Authenticated())

	token := makeToken(t, jwt.MapClaims{"id": "user-123"})
	require.NoError(t, m.SetToken(context.Background(), token))

	require.True(t, m.Authenticated())
	require.Equal(t, token, m.Token())
	require.Equal(t, "user-123", m.UserID())
}

func TestAdjustBalance(t *testing.T) {
	m, err := NewManager(context.Background(), nil)
	require.NoError(t, err)

	// Senza profilo caricato il saldo non è aggiustabile
	_, _, err = m.AdjustBalance(decimal.NewFromInt(10))
	require.Error(t, err)

	m.SetProfile(&models.Profile{Balance: decimal.NewFromInt(1000)})
	oldBalance, newBalance, err := m.AdjustBalance(decimal.NewFromInt(-102))
	require.NoError(t, err)
	require.True(t, oldBalance.Equal(decimal.NewFromInt(1000)))
	require.True(t, newBalance.Equal(decimal.NewFromInt(898)))
	require.True(t, m.Profile().Balance.Equal(decimal.NewFromInt(898)))
}

func TestInvalidateEmitsOnce(t *testing.T) {
	m, err := NewManager(context.Background(), nil)
	require.NoError(t, err)

	token := makeToken(t, jwt.MapClaims{"id": "user-123"})
	require.NoError(t, m.SetToken(context.Background(), token))
	m.SetProfile(&models.Profile{Balance: decimal.NewFromInt(50)})

	select {
	case <-m.Unauthenticated():
		t.Fatal("evento unauthenticated emesso prima dell'invalidazione")
	default:
	}

	m.Invalidate()
	m.Invalidate() // la seconda chiamata è un no-op, non deve andare in panic

	select {
	case <-m.Unauthenticated():
	default:
		t.Fatal("evento unauthenticated non emesso")
	}

	require.False(t, m.Authenticated())
	require.Empty(t, m.UserID())
	require.Nil(t, m.Profile())
}
