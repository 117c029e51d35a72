package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple", 4)
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, CheckPassword("correct horse battery staple", digest))
	assert.False(t, CheckPassword("wrong password", digest))
}

func TestCheckPasswordEmptyDigest(t *testing.T) {
	// Provider accounts store an empty digest and must never pass.
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("", ""))
}
