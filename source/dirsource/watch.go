package dirsource

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/contentpack/logger"
	"github.com/teranos/contentpack/store"
)

// watchLoop monitors the content tree and emits a fresh snapshot per
// debounced batch of file events. fsnotify does not watch recursively,
// so every subdirectory is registered, including ones created later.
func (s *DirectorySource) watchLoop(ctx context.Context, root string, ch chan<- store.SnapshotResult) {
	defer close(ch)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		ch <- store.SnapshotResult{Err: err}
		return
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		ch <- store.SnapshotResult{Err: err}
		return
	}

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	emit := func() {
		snap, err := s.snapshot(root)
		select {
		case ch <- store.SnapshotResult{Snapshot: snap, Err: err}:
		case <-ctx.Done():
		}
	}
	scheduleEmit := func() {
		mu.Lock()
		defer mu.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(s.Debounce, emit)
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				// A new directory needs its own watch before files
				// land inside it.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.Warnw("Failed to watch new directory",
							"dir", event.Name, "error", err)
					}
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debugw("Content change detected",
					"file", event.Name, "op", event.Op.String())
				scheduleEmit()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Content watcher error", "error", err)
		}
	}
}

// addRecursive registers root and every directory below it.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
