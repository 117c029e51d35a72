package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken("user-1", "a@b.com", "USER", "secret", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("user-1", "a@b.com", "USER", "secret", time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := IssueToken("user-1", "a@b.com", "USER", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeToken(t *testing.T) {
	token, err := IssueToken("user-1", "a@b.com", "ADMIN", "secret", time.Minute)
	require.NoError(t, err)

	claims := DecodeToken(token)
	require.NotNil(t, claims)
	assert.Equal(t, "ADMIN", claims.Role)

	assert.Nil(t, DecodeToken("garbage"))
}
