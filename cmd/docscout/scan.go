package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docscout/docscout/internal/agent"
	"github.com/docscout/docscout/internal/config"
	"github.com/docscout/docscout/internal/markdown"
	"github.com/docscout/docscout/internal/providers"
)

var (
	scanTask       string
	scanContext    string
	scanStartAfter string
	scanMaxSteps   int
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Scan a markdown document for a task",
	Long: `Scan reads a markdown file, segments it into pointer-addressed items,
and runs the scan loop against the configured provider. The result is
printed as JSON on stdout; progress logs go to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		items, err := markdown.Segment(src)
		if err != nil {
			return fmt.Errorf("segment document: %w", err)
		}
		if len(items) == 0 {
			return fmt.Errorf("document %s has no scannable items", args[0])
		}

		logger := newLogger()
		client := providers.NewOpenAIClient(cfg.ToProviderConfig())
		scanner, err := agent.New(cfg.ToAgentConfig(client, logger))
		if err != nil {
			return err
		}

		res, err := scanner.Run(cmd.Context(), items, agent.Request{
			Task:       scanTask,
			Context:    scanContext,
			StartAfter: scanStartAfter,
			MaxSteps:   scanMaxSteps,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanTask, "task", "t", "", "what to find in the document (required)")
	scanCmd.Flags().StringVar(&scanContext, "context", "", "optional background for the task")
	scanCmd.Flags().StringVar(&scanStartAfter, "start-after", "", "resume scanning after this pointer (e.g. 1.2.p3)")
	scanCmd.Flags().IntVar(&scanMaxSteps, "max-steps", 0, "override the configured scanner step budget")
	_ = scanCmd.MarkFlagRequired("task")
}
