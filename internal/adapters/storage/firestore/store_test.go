package firestore

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocIDEscapesSlashes(t *testing.T) {
	assert.Equal(t, "chatHistory_abc", docID("chatHistory_abc"))
	assert.NotContains(t, docID("chatHistory_a/b"), "/")
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := NewStore(t.Context(), "")
	assert.Error(t, err)
}

// newEmulatorStore connects to the Firestore emulator; the client picks up
// FIRESTORE_EMULATOR_HOST on its own.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	s, err := NewStore(t.Context(), "healthners-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := t.Context()
	key := "chatHistory_" + uuid.NewString()

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, key, `[{"text":"hi","isUser":true}]`))
	require.NoError(t, s.Set(ctx, key, `[]`))

	v, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Remove(ctx, key))
	_, found, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreKeysWithSlashes(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := t.Context()
	key := "chatHistory_" + uuid.NewString() + "/x"

	require.NoError(t, s.Set(ctx, key, "v"))
	v, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Remove(ctx, key))
}

func TestRemoveMissingKey(t *testing.T) {
	s := newEmulatorStore(t)

	assert.NoError(t, s.Remove(t.Context(), "missing_"+uuid.NewString()))
}
