package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/teranos/contentpack/config"
	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/logger"
)

var (
	watchOutput  string
	watchContent string
	watchSchema  string
)

// WatchCmd regenerates artifacts on every content change
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate artifacts whenever the content source changes",
	Long: `Watch the content directory and run a generation pass per change.

Passes are serialized: a new snapshot starts a pass only after the
previous one finished. Unchanged documents are never rewritten, so a
pass after a single-file edit touches one data file plus the
always-regenerated aggregates.`,
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Artifact root (default from config)")
	WatchCmd.Flags().StringVarP(&watchContent, "content", "c", "", "Content directory (default from config)")
	WatchCmd.Flags().StringVarP(&watchSchema, "schema", "s", "", "Schema file (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	src, orchestrator, err := setup(cfg, watchSchema, watchContent, watchOutput, true)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sch, snapshots, err := orchestrator.Resolve(ctx, src, cwd)
	if err != nil {
		return err
	}

	// Throttle sustained churn; a burst of one lets the first pass
	// start immediately.
	perSecond := float64(cfg.Watch.MaxPassesPerMinute) / 60.0
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)

	outputRoot := cfg.Output.Root
	if watchOutput != "" {
		outputRoot = watchOutput
	}
	logger.Infow("Watching for content changes",
		"content", src.ContentDir,
		"output", outputRoot)

	for {
		select {
		case <-ctx.Done():
			logger.Infow("Watch stopped")
			return nil

		case result, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			if result.Err != nil {
				logger.Errorw("Snapshot fetch failed, waiting for next change",
					"error", result.Err)
				continue
			}

			summary, err := orchestrator.Run(ctx, sch, result.Snapshot)
			if err != nil {
				if errors.IsInvariantViolation(err) {
					// Schema/data relationship is broken; the next
					// snapshot may fix it, so keep watching.
					logger.Errorw("Pass failed on invariant violation",
						"error", err)
				} else {
					logger.Errorw("Pass failed",
						"error", err)
				}
				continue
			}
			logger.Infow("Pass complete",
				"documents", summary.DocumentCount,
				"written", summary.Written,
				"skipped", summary.Skipped)
		}
	}
}
