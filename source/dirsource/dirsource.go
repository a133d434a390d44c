// Package dirsource provides a filesystem content source: a YAML
// schema file plus a directory tree of JSON/YAML documents. Relative
// document paths become hierarchical identifiers, so nested content
// exercises the flattening rules downstream.
package dirsource

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/schema"
	"github.com/teranos/contentpack/store"
)

// DirectorySource reads schema and documents from disk. With Watch
// enabled, FetchData keeps emitting fresh snapshots on (debounced)
// file changes until the context is cancelled.
type DirectorySource struct {
	SchemaFile string
	ContentDir string
	Watch      bool
	Debounce   time.Duration
}

// New creates a source for the given schema file and content directory.
func New(schemaFile, contentDir string) *DirectorySource {
	return &DirectorySource{
		SchemaFile: schemaFile,
		ContentDir: contentDir,
		Debounce:   200 * time.Millisecond,
	}
}

// schemaFile is the on-disk YAML layout.
type schemaFile struct {
	DiscriminantField string           `yaml:"discriminant_field"`
	Types             []schema.TypeDef `yaml:"types"`
}

// ProvideSchema reads and validates the schema definition.
func (s *DirectorySource) ProvideSchema() (schema.Schema, error) {
	raw, err := os.ReadFile(s.SchemaFile)
	if err != nil {
		return schema.Schema{}, errors.Wrapf(err, "failed to read schema file %s", s.SchemaFile)
	}

	var file schemaFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return schema.Schema{}, errors.Wrapf(err, "failed to parse schema file %s", s.SchemaFile)
	}

	sch := schema.Schema{
		DiscriminantField: file.DiscriminantField,
		Types:             make(map[string]schema.TypeDef, len(file.Types)),
	}
	for _, def := range file.Types {
		if _, ok := sch.Types[def.Name]; ok {
			return schema.Schema{}, errors.Newf("duplicate type %q in schema file", def.Name)
		}
		sch.Types[def.Name] = def
	}
	if err := sch.Validate(); err != nil {
		return schema.Schema{}, err
	}
	return sch, nil
}

// FetchData emits one snapshot immediately and, in watch mode, a new
// snapshot per debounced change until ctx is cancelled. The channel is
// closed when no further snapshots will come.
func (s *DirectorySource) FetchData(ctx context.Context, sch schema.Schema, cwd string) (<-chan store.SnapshotResult, error) {
	root := s.ContentDir
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, errors.Wrapf(err, "content directory %s not accessible", root)
	}

	ch := make(chan store.SnapshotResult, 1)
	snap, err := s.snapshot(root)
	ch <- store.SnapshotResult{Snapshot: snap, Err: err}

	if !s.Watch {
		close(ch)
		return ch, nil
	}

	go s.watchLoop(ctx, root, ch)
	return ch, nil
}

// snapshot walks the content tree and realizes every document.
func (s *DirectorySource) snapshot(root string) (store.Snapshot, error) {
	snap := make(store.Snapshot)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))

		doc, err := readDocument(path, ext)
		if err != nil {
			return errors.Wrapf(err, "failed to read document %s", rel)
		}
		doc[store.IDField] = id

		fingerprint, err := store.Fingerprint(doc)
		if err != nil {
			return errors.Wrapf(err, "failed to fingerprint document %s", rel)
		}

		if _, ok := snap[id]; ok {
			return errors.Newf("duplicate document identifier %q", id)
		}
		snap[id] = store.CacheItem{Document: doc, Fingerprint: fingerprint}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// readDocument parses one file into a document.
func readDocument(path, ext string) (store.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := make(store.Document)
	if ext == ".json" {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
