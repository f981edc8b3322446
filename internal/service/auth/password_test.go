package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	// MinCost keeps the test fast; the interface contract is identical.
	hasher := &BcryptHasher{cost: 4}

	t.Run("hash and compare round trip", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.True(t, strings.HasPrefix(hash, "$2"))

		assert.NoError(t, hasher.Compare(hash, "correct horse battery staple"))
	})

	t.Run("wrong password fails comparison", func(t *testing.T) {
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.Error(t, hasher.Compare(hash, "incorrect horse"))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := hasher.Hash("repeatable input")
		require.NoError(t, err)
		second, err := hasher.Hash("repeatable input")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "bcrypt salts each hash")
	})

	t.Run("compare against garbage hash fails", func(t *testing.T) {
		assert.Error(t, hasher.Compare("not-a-bcrypt-hash", "password"))
	})
}

func TestNewBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()
	assert.NotNil(t, hasher)

	// The default-cost hasher must satisfy both interfaces.
	var _ PasswordHasher = hasher
	var _ PasswordVerifier = hasher
}
