package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/pipeline"
)

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := pipeline.NewDeps(cfg, log)
	if err != nil {
		return err
	}
	deps.Printer = printer()
	if verbose {
		deps.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", e.Step, e.Message)
		}
	}

	result, err := pipeline.Run(cmd.Context(), cfg, deps)
	if err != nil {
		return err
	}

	if !result.Found {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No weekly menu post found")
		return nil
	}
	for _, f := range result.Failures {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", f)
	}
	log.Info().
		Str("run_id", result.RunID).
		Bool("rendered", result.Rendered).
		Int("published", len(result.Published)).
		Int("failures", len(result.Failures)).
		Dur("duration", result.Duration).
		Msg("run finished")
	return nil
}
