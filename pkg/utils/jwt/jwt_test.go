package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("round-trip-secret")
	t.Cleanup(func() { secret = nil })

	token, err := GenerateToken(7, "agent@example.com", "agent")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	Init("first-secret")
	t.Cleanup(func() { secret = nil })

	token, err := GenerateToken(7, "agent@example.com", "agent")
	require.NoError(t, err)

	Init("second-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
