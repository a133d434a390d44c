package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/contentpack/cmd/contentpack/commands"
	"github.com/teranos/contentpack/config"
	"github.com/teranos/contentpack/logger"
)

var rootCmd = &cobra.Command{
	Use:   "contentpack",
	Short: "contentpack - incremental content artifact generation",
	Long: `contentpack turns a content schema plus a document store into a
generated package of artifact files: per-document data, per-type
barrels, aggregate indices, type declarations, and a manifest.

Repeated runs skip every file whose logical content is unchanged, so
watch mode only touches disk for documents that actually changed.

Examples:
  contentpack build            # one full generation pass
  contentpack watch            # regenerate on content changes
  contentpack version          # show build information`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Initialize(cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func main() {
	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)

	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
