package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")
	userID := uuid.New()

	token, err := m.GenerateToken(userID, "staff@example.com", "Staff", "WAREHOUSE_STAFF", "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "WAREHOUSE_STAFF", claims.RoleCode)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Hour, "test")
	token, err := m.GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", "v1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("other", time.Hour, "test").ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewManager("secret", time.Hour, "elsewhere").ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewManager("secret", time.Minute, "test")
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		expired, err := old.GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", "v1")
		require.NoError(t, err)

		_, err = m.ValidateToken(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := m.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}
