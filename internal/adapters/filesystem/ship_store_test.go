package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/portplan/internal/ports/secondary"
)

func newTestStore(t *testing.T) *ShipStore {
	t.Helper()
	store, err := NewShipStore(filepath.Join(t.TempDir(), "ships"))
	require.NoError(t, err)
	return store
}

func TestShipStore_MissingDirIsEmpty(t *testing.T) {
	docs, err := newTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestShipStore_SaveListGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"Zephyr", "Aurora", "MS Matilda"} {
		err := store.Save(ctx, &secondary.ShipDocument{Name: name, Data: []byte(`{"length": 1}` + "\n")})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "nested.json"), 0755))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, d := range docs {
		names = append(names, d.Name)
		assert.Equal(t, filepath.Join(store.Dir(), d.Name+".json"), d.Source)
		assert.NotEmpty(t, d.UpdatedAt)
	}
	assert.Equal(t, []string{"Aurora", "MS Matilda", "Zephyr"}, names)

	doc, err := store.Get(ctx, "MS Matilda")
	require.NoError(t, err)
	assert.Equal(t, "{\"length\": 1}\n", string(doc.Data))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files are renamed or removed")
	}
}

func TestShipStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, &secondary.ShipDocument{Name: "Aurora", Data: []byte("1")}))
	require.NoError(t, store.Save(ctx, &secondary.ShipDocument{Name: "Aurora", Data: []byte("2")}))

	doc, err := store.Get(ctx, "Aurora")
	require.NoError(t, err)
	assert.Equal(t, "2", string(doc.Data))
}

func TestShipStore_GetAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Get(ctx, "Nope")
	assert.ErrorIs(t, err, secondary.ErrShipNotFound)
	assert.NoError(t, store.Delete(ctx, "Nope"))
}

func TestShipStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, &secondary.ShipDocument{Name: "Aurora", Data: []byte("{}")}))

	require.NoError(t, store.Delete(ctx, "Aurora"))
	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestShipStore_RejectsPathNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, name := range []string{"", "..", "../escape", `a\b`} {
		err := store.Save(ctx, &secondary.ShipDocument{Name: name, Data: []byte("{}")})
		assert.Error(t, err, "name %q", name)
	}
}
