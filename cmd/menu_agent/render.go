package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/pipeline"
	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
)

var renderCmd = &cobra.Command{
	Use:   steps.StepRender,
	Short: steps.StepRegistry[steps.StepRender].Description,
	Long:  "Renders page one of the downloaded menu PDF to a JPEG image.",
	RunE:  runRender,
}

var (
	renderIn  string
	renderOut string
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "Path to the menu PDF (defaults to paths.document)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path to write the JPEG (defaults to paths.image)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if renderIn != "" {
		cfg.Paths.Document = renderIn
	}
	if renderOut != "" {
		cfg.Paths.Image = renderOut
	}

	if err := steps.ValidateDependencies(steps.StepRender, pipeline.ArtifactsFor(cfg)); err != nil {
		return err
	}

	deps, err := stageDeps(cfg, log)
	if err != nil {
		return err
	}
	ok, err := deps.Renderer.FirstPage(cmd.Context(), cfg.Paths.Document, cfg.Paths.Image)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s has no pages; nothing written\n", cfg.Paths.Document)
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", cfg.Paths.Image)
	return nil
}
