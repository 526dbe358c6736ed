package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/pipeline"
	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
)

var extractCmd = &cobra.Command{
	Use:   steps.StepExtract,
	Short: steps.StepRegistry[steps.StepExtract].Description,
	Long: `Reads the table on page one of the menu PDF and writes the weekday/venue/meal record as JSON.

The cell offsets come from the layout section of the config file.`,
	RunE: runExtract,
}

var (
	extractIn  string
	extractOut string
)

func init() {
	extractCmd.Flags().StringVarP(&extractIn, "in", "i", "", "Path to the menu PDF (defaults to paths.document)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Path to write the JSON (defaults to paths.json)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if extractIn != "" {
		cfg.Paths.Document = extractIn
	}
	if extractOut != "" {
		cfg.Paths.JSON = extractOut
	}

	if err := steps.ValidateDependencies(steps.StepExtract, pipeline.ArtifactsFor(cfg)); err != nil {
		return err
	}

	deps, err := stageDeps(cfg, log)
	if err != nil {
		return err
	}
	record, err := deps.Extractor.ExtractFile(cmd.Context(), cfg.Paths.Document, cfg.Paths.JSON)
	if err != nil {
		return err
	}

	if p := printer(); p != nil {
		p.PrintMenuRecord(record)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Paths.JSON)
	return nil
}
