// Package generate runs generation passes: plan the artifact set,
// ensure output directories, and write selectively through the
// process-lifetime write cache.
package generate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/plan"
	"github.com/teranos/contentpack/schema"
	"github.com/teranos/contentpack/store"
)

// DebugDumpEnv gates the diagnostic dump of schema and snapshot as
// JSON under cache/ in the output root.
const DebugDumpEnv = "CONTENTPACK_DEBUG_DUMP"

// Summary reports a successful pass.
type Summary struct {
	DocumentCount int
	Written       int
	Skipped       int
}

// Orchestrator sequences one generation pass at a time and owns the
// write cache for its lifetime. Passes must be serialized by the
// caller: concurrent passes would race on the cache and on directory
// creation and are unsupported.
type Orchestrator struct {
	fs            FS
	cache         *WriteCache
	outputRoot    string
	maxConcurrent int
	logger        *zap.SugaredLogger
}

// NewOrchestrator creates an orchestrator writing under outputRoot.
func NewOrchestrator(fs FS, outputRoot string, maxConcurrent int, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		fs:            fs,
		cache:         NewWriteCache(),
		outputRoot:    outputRoot,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Resolve obtains the schema and ensures the output root exists,
// concurrently. Either failure aborts before any planning. On success
// it opens the source's snapshot stream; each emitted snapshot is one
// Run invocation for the caller.
func (o *Orchestrator) Resolve(ctx context.Context, src store.Source, cwd string) (schema.Schema, <-chan store.SnapshotResult, error) {
	var (
		wg        sync.WaitGroup
		sch       schema.Schema
		schemaErr error
		dirErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		s, err := src.ProvideSchema()
		if err != nil {
			schemaErr = errors.Wrap(errors.ErrSchemaUnavailable, err.Error())
			return
		}
		sch = s
	}()
	go func() {
		defer wg.Done()
		if err := o.fs.EnsureDirectory(o.outputRoot); err != nil {
			dirErr = errors.Wrapf(err, "failed to ensure output root %s", o.outputRoot)
		}
	}()
	wg.Wait()

	if schemaErr != nil {
		return schema.Schema{}, nil, schemaErr
	}
	if dirErr != nil {
		return schema.Schema{}, nil, dirErr
	}

	snapshots, err := src.FetchData(ctx, sch, cwd)
	if err != nil {
		return schema.Schema{}, nil, errors.Wrap(errors.ErrFetchFailed, err.Error())
	}
	return sch, snapshots, nil
}

// Run executes one generation pass over a resolved schema and
// snapshot: plan, ensure per-type directories, selective write,
// summary. No retries; a failed pass is reported to the caller, who
// owns retry policy.
func (o *Orchestrator) Run(ctx context.Context, sch schema.Schema, snap store.Snapshot) (Summary, error) {
	artifacts, err := plan.Plan(sch, snap)
	if err != nil {
		return Summary{}, err
	}

	if err := o.ensureDirs(plan.TypeDirs(sch)); err != nil {
		return Summary{}, err
	}

	stats, err := writeAll(o.fs, o.cache, o.outputRoot, artifacts, o.maxConcurrent)
	if err != nil {
		return Summary{}, err
	}

	o.maybeDumpDebug(sch, snap)

	summary := Summary{
		DocumentCount: len(snap),
		Written:       stats.Written,
		Skipped:       stats.Skipped,
	}
	o.logger.Infow("Generation pass complete",
		"documents", summary.DocumentCount,
		"written", summary.Written,
		"skipped", summary.Skipped)
	return summary, nil
}

// RunOnce resolves inputs, consumes a single snapshot, and runs one
// pass. This is the full-build entry point.
func (o *Orchestrator) RunOnce(ctx context.Context, src store.Source, cwd string) (Summary, error) {
	sch, snapshots, err := o.Resolve(ctx, src, cwd)
	if err != nil {
		return Summary{}, err
	}

	select {
	case result, ok := <-snapshots:
		if !ok {
			return Summary{}, errors.Wrap(errors.ErrFetchFailed, "source closed without a snapshot")
		}
		if result.Err != nil {
			return Summary{}, errors.Wrap(errors.ErrFetchFailed, result.Err.Error())
		}
		return o.Run(ctx, sch, result.Snapshot)
	case <-ctx.Done():
		return Summary{}, errors.Wrap(ctx.Err(), "cancelled while waiting for snapshot")
	}
}

// ensureDirs fans out directory creation; the target paths are
// disjoint, so order between them does not matter.
func (o *Orchestrator) ensureDirs(dirs []string) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, dir := range dirs {
		wg.Add(1)
		go func(dir string) {
			defer wg.Done()
			target := filepath.Join(o.outputRoot, filepath.FromSlash(dir))
			if err := o.fs.EnsureDirectory(target); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "failed to ensure directory %s", dir)
				}
				mu.Unlock()
			}
		}(dir)
	}
	wg.Wait()
	return firstErr
}

// maybeDumpDebug writes the schema and snapshot as JSON under cache/
// when enabled via environment. Diagnostic only: failures are logged
// and never fail the pass.
func (o *Orchestrator) maybeDumpDebug(sch schema.Schema, snap store.Snapshot) {
	if os.Getenv(DebugDumpEnv) == "" {
		return
	}

	cacheDir := filepath.Join(o.outputRoot, "cache")
	if err := o.fs.EnsureDirectory(cacheDir); err != nil {
		o.logger.Warnw("Debug dump skipped", "error", err)
		return
	}
	for name, value := range map[string]any{
		"schema.json": sch,
		"store.json":  snap,
	} {
		content, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			o.logger.Warnw("Debug dump marshal failed", "file", name, "error", err)
			continue
		}
		if err := o.fs.WriteFile(filepath.Join(cacheDir, name), content); err != nil {
			o.logger.Warnw("Debug dump write failed", "file", name, "error", err)
		}
	}
}
