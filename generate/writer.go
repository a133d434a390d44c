package generate

import (
	"path/filepath"
	"sync"

	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/plan"
)

// WriteStats counts the outcome of one selective-write fan-out.
type WriteStats struct {
	Written int
	Skipped int
}

// writeAll fans the planned artifacts out as concurrent writes through
// the cache. Artifacts touch disjoint paths, so there is no ordering
// requirement between them; concurrency is bounded by maxConcurrent.
// The first failure is surfaced as the overall outcome, and files
// already written by sibling operations stay on disk — each is
// independently safe to rewrite on the next pass.
func writeAll(fs FS, cache *WriteCache, root string, artifacts []plan.Artifact, maxConcurrent int) (WriteStats, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		stats    WriteStats
		firstErr error
	)
	sem := make(chan struct{}, maxConcurrent)

	for _, art := range artifacts {
		wg.Add(1)
		sem <- struct{}{}
		go func(art plan.Artifact) {
			defer wg.Done()
			defer func() { <-sem }()

			target := filepath.Join(root, filepath.FromSlash(art.Path))
			wrote, err := cache.WriteIfChanged(fs, target, art.Content, art.Fingerprint)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "failed to write %s", art.Path)
				}
			case wrote:
				stats.Written++
			default:
				stats.Skipped++
			}
		}(art)
	}
	wg.Wait()

	return stats, firstErr
}
