package dirsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contentpack/store"
)

const testSchema = `
discriminant_field: type
types:
  - name: Post
  - name: Settings
    singleton: true
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupContent(t *testing.T) (schemaPath, contentDir string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "schema.yaml")
	contentDir = filepath.Join(dir, "content")

	writeFile(t, schemaPath, testSchema)
	writeFile(t, filepath.Join(contentDir, "a.json"),
		`{"type": "Post", "title": "first"}`)
	writeFile(t, filepath.Join(contentDir, "2024", "b.yaml"),
		"type: Post\ntitle: second\n")
	writeFile(t, filepath.Join(contentDir, "settings.yaml"),
		"type: Settings\nsite: example\n")
	return schemaPath, contentDir
}

func TestProvideSchema(t *testing.T) {
	schemaPath, contentDir := setupContent(t)
	src := New(schemaPath, contentDir)

	sch, err := src.ProvideSchema()
	require.NoError(t, err)
	assert.Equal(t, "type", sch.DiscriminantField)
	assert.Equal(t, []string{"Post", "Settings"}, sch.SortedTypeNames())
	assert.True(t, sch.Types["Settings"].Singleton)
}

func TestProvideSchemaMissingFile(t *testing.T) {
	src := New(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
	_, err := src.ProvideSchema()
	assert.Error(t, err)
}

func TestFetchDataSingleSnapshot(t *testing.T) {
	schemaPath, contentDir := setupContent(t)
	src := New(schemaPath, contentDir)

	sch, err := src.ProvideSchema()
	require.NoError(t, err)

	ch, err := src.FetchData(context.Background(), sch, ".")
	require.NoError(t, err)

	result := <-ch
	require.NoError(t, result.Err)
	snap := result.Snapshot

	assert.Equal(t, []string{"2024/b", "a", "settings"}, snap.SortedIDs(),
		"identifiers derive from relative paths without extensions")
	assert.Equal(t, "a", snap["a"].Document.ID())
	assert.Equal(t, "Post", snap["a"].Document.TypeName("type"))
	assert.NotEmpty(t, snap["a"].Fingerprint)

	_, open := <-ch
	assert.False(t, open, "channel closes after one snapshot outside watch mode")
}

func TestFetchDataFingerprintStableAcrossFetches(t *testing.T) {
	schemaPath, contentDir := setupContent(t)
	src := New(schemaPath, contentDir)
	sch, err := src.ProvideSchema()
	require.NoError(t, err)

	fetch := func() store.Snapshot {
		ch, err := src.FetchData(context.Background(), sch, ".")
		require.NoError(t, err)
		result := <-ch
		require.NoError(t, result.Err)
		return result.Snapshot
	}

	first := fetch()
	second := fetch()
	for id := range first {
		assert.Equal(t, first[id].Fingerprint, second[id].Fingerprint,
			"unchanged document %q must keep its fingerprint", id)
	}
}

func TestFetchDataMissingContentDir(t *testing.T) {
	schemaPath, _ := setupContent(t)
	src := New(schemaPath, filepath.Join(t.TempDir(), "missing"))
	sch, err := src.ProvideSchema()
	require.NoError(t, err)

	_, err = src.FetchData(context.Background(), sch, ".")
	assert.Error(t, err)
}

func TestWatchEmitsOnChange(t *testing.T) {
	schemaPath, contentDir := setupContent(t)
	src := New(schemaPath, contentDir)
	src.Watch = true
	src.Debounce = 20 * time.Millisecond

	sch, err := src.ProvideSchema()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := src.FetchData(ctx, sch, ".")
	require.NoError(t, err)

	first := <-ch
	require.NoError(t, first.Err)
	require.Len(t, first.Snapshot, 3)

	writeFile(t, filepath.Join(contentDir, "c.json"),
		`{"type": "Post", "title": "third"}`)

	select {
	case result := <-ch:
		require.NoError(t, result.Err)
		assert.Len(t, result.Snapshot, 4)
		assert.Contains(t, result.Snapshot, "c")
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot emitted after content change")
	}
}
