package generate

import (
	"os"
	"path/filepath"
)

// FS is the narrow filesystem surface the generation core writes
// through. EnsureDirectory treats "already exists" as success.
type FS interface {
	EnsureDirectory(path string) error
	WriteFile(path string, content []byte) error
}

// OSFS is the production FS backed by the operating system.
type OSFS struct{}

// EnsureDirectory creates path and any missing parents. An existing
// directory is not an error.
func (OSFS) EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes content to path, creating or truncating it.
func (OSFS) WriteFile(path string, content []byte) error {
	return os.WriteFile(filepath.Clean(path), content, 0o644)
}
