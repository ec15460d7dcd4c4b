package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-session-auth/internal/model"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash embeds cost and salt", func(t *testing.T) {
		hash, err := hasher.Hash("secret1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
		assert.NotContains(t, hash, "secret1")

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		h1, err := hasher.Hash("secret1")
		require.NoError(t, err)
		h2, err := hasher.Hash("secret1")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("compare accepts the right password", func(t *testing.T) {
		hash, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.NoError(t, hasher.Compare(hash, "secret1"))
	})

	t.Run("compare rejects a near miss", func(t *testing.T) {
		hash, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.ErrorIs(t, hasher.Compare(hash, "secret2"), model.ErrInvalidPassword)
		require.ErrorIs(t, hasher.Compare(hash, "Secret1"), model.ErrInvalidPassword)
	})

	t.Run("compare surfaces malformed hashes", func(t *testing.T) {
		err := hasher.Compare("not-a-hash", "secret1")
		require.Error(t, err)
		require.NotErrorIs(t, err, model.ErrInvalidPassword)
	})
}

func TestNewBcryptHasher_DefaultsOutOfRangeCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
}
