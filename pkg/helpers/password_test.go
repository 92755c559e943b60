package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "horse-battery", hash)

	assert.True(t, CompareHashAndPassword(hash, "horse-battery"))
	assert.False(t, CompareHashAndPassword(hash, "horse-batterx"))

	// each hash gets its own salt
	again, err := HashPassword("horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestCompareDummy(t *testing.T) {
	t.Parallel()
	assert.False(t, CompareDummy("anything"))
	assert.False(t, CompareDummy("equal-cost-dummy"))
}
