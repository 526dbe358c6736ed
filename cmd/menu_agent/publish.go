package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/pipeline"
	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
	"github.com/gyo-lab/weeklymenu/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   steps.StepPublish + " [file...]",
	Short: steps.StepRegistry[steps.StepPublish].Description,
	Long: `Uploads files to the root of the configured repository branch, creating each one or
updating it in place. Without arguments the rendered image is uploaded, plus the JSON
record when publish.include_json is set. Requires GITHUB_TOKEN.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		if err := steps.ValidateDependencies(steps.StepPublish, pipeline.ArtifactsFor(cfg)); err != nil {
			return err
		}
		files = []string{cfg.Paths.Image}
		if cfg.Publish.IncludeJSON {
			files = append(files, cfg.Paths.JSON)
		}
	}

	publisher, err := publish.NewPublisher(cfg.Publish.Token, cfg.Publish.Repo, cfg.Publish.Branch)
	if err != nil {
		return err
	}

	for _, file := range files {
		action, err := publisher.Publish(cmd.Context(), file)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %s\n", action, file, publisher.Repo())
	}
	return nil
}
