package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hashed, err := Password("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.NotEqual(t, "secret1", hashed)
	assert.True(t, Check(hashed, "secret1"))
	assert.False(t, Check(hashed, "secret2"))
}

func TestPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	first, err := Password("same-password")
	require.NoError(t, err)
	second, err := Password("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Check(first, "same-password"))
	assert.True(t, Check(second, "same-password"))
}

func TestCheck_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, Check("not-a-bcrypt-hash", "whatever"))
	assert.False(t, Check("", "whatever"))
}
