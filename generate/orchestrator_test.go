package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/schema"
	"github.com/teranos/contentpack/store"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func postSchema() schema.Schema {
	return schema.Schema{
		DiscriminantField: "type",
		Types: map[string]schema.TypeDef{
			"Post": {Name: "Post"},
		},
	}
}

func postSnapshot(fpA, fpB string) store.Snapshot {
	return store.Snapshot{
		"a": {
			Document:    store.Document{"_id": "a", "type": "Post", "title": "first"},
			Fingerprint: fpA,
		},
		"2024/b": {
			Document:    store.Document{"_id": "2024/b", "type": "Post", "title": "second"},
			Fingerprint: fpB,
		},
	}
}

func TestRunWritesFullArtifactSet(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	summary, err := o.Run(context.Background(), postSchema(), postSnapshot("fp-a", "fp-b"))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DocumentCount)
	assert.Equal(t, 8, summary.Written, "2 documents + barrel + aggregates + declarations + manifest")
	assert.Equal(t, 0, summary.Skipped)

	for _, path := range []string{
		"out/package.json",
		"out/types/index.d.ts",
		"out/types/index.mjs",
		"out/data/index.d.ts",
		"out/data/index.mjs",
		"out/data/allPosts.mjs",
		"out/data/Post/a.json",
		"out/data/Post/_2024__b.json",
	} {
		assert.Contains(t, fs.files, path)
	}
	assert.True(t, fs.dirs["out/data/Post"], "per-type directory must be ensured")
}

func TestRunWriteAvoidanceAcrossPasses(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())
	ctx := context.Background()

	_, err := o.Run(ctx, postSchema(), postSnapshot("fp-a", "fp-b"))
	require.NoError(t, err)

	// Second pass: a unchanged, 2024/b changed
	summary, err := o.Run(ctx, postSchema(), postSnapshot("fp-a", "fp-b2"))
	require.NoError(t, err)

	assert.Equal(t, 1, fs.writeCount("out/data/Post/a.json"),
		"unchanged document must not be rewritten")
	assert.Equal(t, 2, fs.writeCount("out/data/Post/_2024__b.json"),
		"changed document must be rewritten exactly once")
	assert.Equal(t, 2, fs.writeCount("out/data/index.mjs"),
		"aggregate index is rewritten every pass")
	assert.Equal(t, 2, fs.writeCount("out/types/index.d.ts"),
		"type declarations are rewritten every pass")
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 7, summary.Written)
}

func TestRunFailsOnWriteError(t *testing.T) {
	fs := newMemFS()
	fs.failOn = filepath.Join("out", "data", "Post", "a.json")
	o := NewOrchestrator(fs, "out", 4, testLogger())

	_, err := o.Run(context.Background(), postSchema(), postSnapshot("fp-a", "fp-b"))
	require.Error(t, err)
	assert.False(t, errors.IsInputError(err))
	assert.False(t, errors.IsInvariantViolation(err))
}

func TestRunSurfacesInvariantViolation(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	sch := schema.Schema{
		DiscriminantField: "type",
		Types: map[string]schema.TypeDef{
			"Settings": {Name: "Settings", Singleton: true},
		},
	}
	_, err := o.Run(context.Background(), sch, store.Snapshot{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptySingleton))
	assert.Empty(t, fs.writes, "an invariant violation must abort before any write")
}

// stubSource serves a fixed schema and a fixed sequence of snapshots.
type stubSource struct {
	sch       schema.Schema
	schemaErr error
	results   []store.SnapshotResult
}

func (s *stubSource) ProvideSchema() (schema.Schema, error) {
	return s.sch, s.schemaErr
}

func (s *stubSource) FetchData(ctx context.Context, sch schema.Schema, cwd string) (<-chan store.SnapshotResult, error) {
	ch := make(chan store.SnapshotResult, len(s.results))
	for _, r := range s.results {
		ch <- r
	}
	close(ch)
	return ch, nil
}

func TestRunOnce(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	src := &stubSource{
		sch:     postSchema(),
		results: []store.SnapshotResult{{Snapshot: postSnapshot("fp-a", "fp-b")}},
	}
	summary, err := o.RunOnce(context.Background(), src, ".")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DocumentCount)
	assert.True(t, fs.dirs["out"], "output root must be ensured before planning")
}

func TestRunOnceSchemaFailure(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	src := &stubSource{schemaErr: errors.New("source exploded")}
	_, err := o.RunOnce(context.Background(), src, ".")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSchemaUnavailable))
	assert.Empty(t, fs.writes, "an input failure performs no writes")
}

func TestRunOnceFetchFailure(t *testing.T) {
	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	src := &stubSource{
		sch:     postSchema(),
		results: []store.SnapshotResult{{Err: errors.New("walk failed")}},
	}
	_, err := o.RunOnce(context.Background(), src, ".")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFetchFailed))
}

func TestRunDebugDump(t *testing.T) {
	t.Setenv(DebugDumpEnv, "1")

	fs := newMemFS()
	o := NewOrchestrator(fs, "out", 4, testLogger())

	_, err := o.Run(context.Background(), postSchema(), postSnapshot("fp-a", "fp-b"))
	require.NoError(t, err)
	assert.Contains(t, fs.files, filepath.Join("out", "cache", "schema.json"))
	assert.Contains(t, fs.files, filepath.Join("out", "cache", "store.json"))
}

func TestOSFSEnsureDirectoryIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data", "Post")

	var fs OSFS
	require.NoError(t, fs.EnsureDirectory(target))
	require.NoError(t, fs.EnsureDirectory(target), "already exists must be success")

	require.NoError(t, fs.WriteFile(filepath.Join(target, "a.json"), []byte("{}\n")))
	content, err := os.ReadFile(filepath.Join(target, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(content))
}
