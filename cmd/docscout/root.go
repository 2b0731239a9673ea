package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docscout",
	Short: "Bounded LLM-assisted scanning of markdown documents",
	Long: `Docscout answers a free-text task against a markdown document by
walking it in budgeted windows with an LLM scanner, accumulating pointer-
addressed evidence, and confirming an answer with a final adjudication call.

Every finding carries a stable pointer into the document's heading
hierarchy (e.g. 1.2.p3), so results can be verified and scans resumed.`,
	Version: gitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docscout/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
