package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestSecret(t *testing.T) {
	t.Helper()
	require.NoError(t, Init("test-secret-at-least-16-chars", 60))
}

func TestInit_RejectsShortSecret(t *testing.T) {
	assert.Error(t, Init("short", 60))
	assert.Error(t, Init("", 60))
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestSecret(t)

	token, err := GenerateToken("user-123", "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseToken_Garbage(t *testing.T) {
	initTestSecret(t)

	for _, bad := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		_, err := ParseToken(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	initTestSecret(t)
	token, err := GenerateToken("user-123", "member")
	require.NoError(t, err)

	require.NoError(t, Init("another-secret-with-16+-chars", 60))
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_TamperedPayload(t *testing.T) {
	initTestSecret(t)
	token, err := GenerateToken("user-123", "member")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = ParseToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
