package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashVerify(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := hasher.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", digest)

	assert.True(t, hasher.Verify("p1", digest))
	assert.False(t, hasher.Verify("p2", digest))
	assert.False(t, hasher.Verify("p1", "not-a-bcrypt-digest"))
}

func TestPasswordHashSalted(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	a, err := hasher.Hash("same")
	require.NoError(t, err)
	b, err := hasher.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasherCostRange(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MaxCost + 1)
	require.ErrorIs(t, err, ErrMisconfigured)
	_, err = NewPasswordHasher(1)
	require.ErrorIs(t, err, ErrMisconfigured)
}
