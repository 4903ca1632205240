package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := hasher.Hash("hunter22hunter22")
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

		ok, err := hasher.Verify("hunter22hunter22", hash)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := hasher.Hash("hunter22hunter22")
		assert.NoError(t, err)

		ok, err := hasher.Verify("hunter23hunter23", hash)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hashing is salted", func(t *testing.T) {
		first, err := hasher.Hash("same-password")
		assert.NoError(t, err)
		second, err := hasher.Hash("same-password")
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("malformed hash is an error", func(t *testing.T) {
		_, err := hasher.Verify("anything", "not-a-hash")
		assert.Error(t, err)
	})
}
