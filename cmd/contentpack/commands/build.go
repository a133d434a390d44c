package commands

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/contentpack/config"
	"github.com/teranos/contentpack/generate"
	"github.com/teranos/contentpack/logger"
	"github.com/teranos/contentpack/source/dirsource"
)

var (
	buildOutput  string
	buildContent string
	buildSchema  string
)

// BuildCmd runs one full generation pass
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run one generation pass over the content source",
	RunE:  runBuild,
}

func init() {
	BuildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Artifact root (default from config)")
	BuildCmd.Flags().StringVarP(&buildContent, "content", "c", "", "Content directory (default from config)")
	BuildCmd.Flags().StringVarP(&buildSchema, "schema", "s", "", "Schema file (default from config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	src, orchestrator, err := setup(cfg, buildSchema, buildContent, buildOutput, false)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := orchestrator.RunOnce(context.Background(), src, cwd)
	if err != nil {
		return err
	}

	logger.Infow("Build complete",
		"documents", summary.DocumentCount,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// setup builds the content source and orchestrator from config plus
// flag overrides.
func setup(cfg *config.Config, schemaFlag, contentFlag, outputFlag string, watch bool) (*dirsource.DirectorySource, *generate.Orchestrator, error) {
	schemaFile := cfg.Source.SchemaFile
	if schemaFlag != "" {
		schemaFile = schemaFlag
	}
	contentDir := cfg.Source.ContentDir
	if contentFlag != "" {
		contentDir = contentFlag
	}
	outputRoot := cfg.Output.Root
	if outputFlag != "" {
		outputRoot = outputFlag
	}

	src := dirsource.New(schemaFile, contentDir)
	src.Watch = watch
	src.Debounce = time.Duration(cfg.Watch.DebounceMs) * time.Millisecond

	orchestrator := generate.NewOrchestrator(
		generate.OSFS{}, outputRoot, cfg.Writer.MaxConcurrent, logger.Logger)
	return src, orchestrator, nil
}
