package generate

import (
	"sync"
)

// WriteCache maps output path to the fingerprint last written there.
// It lives for the process lifetime of its owning orchestrator, is
// never persisted, and never evicts: a path that disappears from later
// passes keeps its entry (harmless, since the cache only ever
// suppresses writes for paths the planner re-emits).
//
// Keys are output paths, not document identities, so a document that
// moves to a new path is a cache miss and is always written.
type WriteCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewWriteCache returns an empty cache.
func NewWriteCache() *WriteCache {
	return &WriteCache{entries: make(map[string]string)}
}

// WriteIfChanged performs the check-then-write-then-record cycle for
// one artifact as a single logical unit:
//
//   - an empty fingerprint always writes and never touches the cache;
//   - a fingerprint matching the cached entry skips the write with no
//     filesystem call of any kind;
//   - otherwise the content is written and the fingerprint recorded
//     only after the write succeeds.
//
// A crash between check and write leaves the entry stale, and the next
// pass simply rewrites: "no write" is strictly stronger than "no
// change detected".
func (c *WriteCache) WriteIfChanged(fs FS, path string, content []byte, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return true, fs.WriteFile(path, content)
	}

	c.mu.Lock()
	last, ok := c.entries[path]
	c.mu.Unlock()
	if ok && last == fingerprint {
		return false, nil
	}

	if err := fs.WriteFile(path, content); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.entries[path] = fingerprint
	c.mu.Unlock()
	return true, nil
}

// Len returns the number of recorded entries.
func (c *WriteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
