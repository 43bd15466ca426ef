package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	token, err := iss.GenerateToken(3, "collab1", "collaborator", 2, "v1")
	require.NoError(t, err)

	claims, err := iss.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "collaborator", claims.Role)
	assert.Equal(t, uint(2), claims.AgentID)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestIssuer_Rejects(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.GenerateToken(1, "admin", "admin", 0, "v1")
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(1, "admin", "admin", 0, "v1")
	require.NoError(t, err)
	_, err = iss.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
