package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-service-secret"))
	require.NoError(t, err)
	return token
}

func TestViewerIDFromToken(t *testing.T) {
	id, err := ViewerIDFromToken(signed(t, jwt.MapClaims{"userId": 42, "sub": "a@b.c"}))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ViewerIDFromToken(signed(t, jwt.MapClaims{"userId": "7"}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestViewerIDFromTokenRejects(t *testing.T) {
	for name, token := range map[string]string{
		"empty":    "",
		"garbage":  "not-a-jwt",
		"no claim": signed(t, jwt.MapClaims{"sub": "a@b.c"}),
		"zero":     signed(t, jwt.MapClaims{"userId": 0}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ViewerIDFromToken(token)
			assert.Error(t, err)
		})
	}
}

func TestNewSession(t *testing.T) {
	token := signed(t, jwt.MapClaims{"userId": 5})

	s := NewSession("Bearer " + token)
	assert.True(t, s.Authenticated())
	assert.Equal(t, token, s.Token)
	assert.True(t, s.Owns(5))
	assert.False(t, s.Owns(6))

	anon := NewSession("broken")
	assert.False(t, anon.Authenticated())
	assert.False(t, anon.Owns(0))
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	expired := signed(t, jwt.MapClaims{"userId": 5, "exp": time.Now().Add(-time.Minute).Unix()})

	_, err := ViewerIDFromToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.False(t, NewSession(expired).Authenticated())

	valid := signed(t, jwt.MapClaims{"userId": 5, "exp": time.Now().Add(time.Hour).Unix()})
	assert.True(t, NewSession(valid).Authenticated())
}

func TestTokenExpiresAtExactInstant(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	token := signed(t, jwt.MapClaims{"userId": 5, "exp": at.Unix()})

	id, err := viewerIDAt(token, at.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = viewerIDAt(token, at)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
