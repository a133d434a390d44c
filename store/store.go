// Package store defines the document-store snapshot consumed by a
// generation pass and the content-source interface that produces it.
package store

import (
	"context"
	"sort"

	"github.com/teranos/contentpack/schema"
)

// IDField is the document field carrying the unique identifier. Every
// realized document includes it alongside the schema's discriminant
// field.
const IDField = "_id"

// Document is one realized document: field name to value.
type Document map[string]any

// ID returns the document's identifier, or "" if absent.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// TypeName returns the value of the schema's discriminant field, or ""
// if absent or not a string.
func (d Document) TypeName(discriminantField string) string {
	name, _ := d[discriminantField].(string)
	return name
}

// CacheItem pairs a document with the content fingerprint used for
// downstream change detection. The fingerprint is opaque to the
// generation core.
type CacheItem struct {
	Document    Document `json:"document"`
	Fingerprint string   `json:"fingerprint"`
}

// Snapshot is the realized document store at one point in time, keyed
// by document identifier. Immutable input to one generation pass.
type Snapshot map[string]CacheItem

// SortedIDs returns the snapshot's document identifiers in lexical
// order, the tie-break order used wherever identifiers affect
// generated output.
func (s Snapshot) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SnapshotResult is one emission from a content source: a snapshot or
// the error that prevented one.
type SnapshotResult struct {
	Snapshot Snapshot
	Err      error
}

// Source supplies the schema and document-store snapshots for
// generation. In watch mode FetchData keeps emitting fresh snapshots
// until the context is cancelled; a build consumes exactly one.
type Source interface {
	ProvideSchema() (schema.Schema, error)
	FetchData(ctx context.Context, sch schema.Schema, cwd string) (<-chan SnapshotResult, error)
}
