package vars

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/palaver/internal/dialogue"
)

// storeContract runs the Store contract against any backend.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	// Missing variable.
	_, ok, err := s.Get(ctx, "gold")
	require.NoError(t, err)
	assert.False(t, ok)

	has, err := s.Has(ctx, "gold")
	require.NoError(t, err)
	assert.False(t, has)

	// Round-trip every scalar kind.
	require.NoError(t, s.Set(ctx, "gold", dialogue.Number(100)))
	require.NoError(t, s.Set(ctx, "name", dialogue.String("Ann")))
	require.NoError(t, s.Set(ctx, "met_jack", dialogue.Bool(true)))

	v, ok, err := s.Get(ctx, "gold")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dialogue.Number(100), v)

	v, _, err = s.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, dialogue.String("Ann"), v)

	v, _, err = s.Get(ctx, "met_jack")
	require.NoError(t, err)
	assert.Equal(t, dialogue.Bool(true), v)

	// Overwrite changes kind.
	require.NoError(t, s.Set(ctx, "gold", dialogue.String("lots")))
	v, _, err = s.Get(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, dialogue.String("lots"), v)

	// Names are sorted.
	names, err := s.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gold", "met_jack", "name"}, names)

	// Delete is idempotent.
	require.NoError(t, s.Delete(ctx, "gold"))
	require.NoError(t, s.Delete(ctx, "gold"))
	has, err = s.Has(ctx, "gold")
	require.NoError(t, err)
	assert.False(t, has)

	// Clear removes everything.
	require.NoError(t, s.Clear(ctx))
	names, err = s.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemory_Contract(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestSQLite_Contract(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "vars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storeContract(t, s)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vars.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "gold", dialogue.Number(42.5)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "gold")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dialogue.Number(42.5), v)
}

func TestSeed(t *testing.T) {
	s := Seed(map[string]dialogue.Value{"gold": dialogue.Number(100)})
	v, ok, err := s.Get(context.Background(), "gold")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, dialogue.Number(100), v)
}
