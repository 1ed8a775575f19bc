package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthners/healthners/internal/adapters/storage/sqlite"
)

func TestStoreRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "healthners.db")

	s, err := sqlite.Open(path)
	require.NoError(t, err)

	_, found, err := s.Get(ctx, "userToken")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "userToken", "first"))
	require.NoError(t, s.Set(ctx, "userToken", "second"))
	require.NoError(t, s.Close())

	s, err = sqlite.Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "userToken")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", v)

	require.NoError(t, s.Remove(ctx, "userToken"))
	_, found, err = s.Get(ctx, "userToken")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}
