package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/config"
	"github.com/gyo-lab/weeklymenu/internal/listing"
	"github.com/gyo-lab/weeklymenu/internal/observability"
	"github.com/gyo-lab/weeklymenu/internal/pipeline"
	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
)

var scanCmd = &cobra.Command{
	Use:   steps.StepScan,
	Short: steps.StepRegistry[steps.StepScan].Description,
	Long:  "Fetches the listing board and prints the first post inside the date window whose title carries the weekly menu marker.",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// stageDeps wires the pipeline stages without the publisher, so single-stage
// commands run without a credential.
func stageDeps(cfg *config.Config, log *observability.Logger) (*pipeline.Deps, error) {
	local := *cfg
	local.Publish.Enabled = false
	return pipeline.NewDeps(&local, log)
}

// scanListing runs the scanner and reports whether a post was found.
func scanListing(cmd *cobra.Command, cfg *config.Config, log *observability.Logger) (*listing.Match, error) {
	deps, err := stageDeps(cfg, log)
	if err != nil {
		return nil, err
	}
	match, err := deps.Scanner.Scan(cmd.Context())
	if errors.Is(err, listing.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing scan failed: %w", err)
	}
	return match, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	match, err := scanListing(cmd, cfg, log)
	if err != nil {
		return err
	}
	if match == nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No weekly menu post found")
		return nil
	}

	if p := printer(); p != nil {
		p.PrintListingEntry(&match.Entry, match.URL)
		return nil
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Title: %s\n", match.Entry.Title)
	_, _ = fmt.Fprintf(out, "Date:  %s\n", match.Entry.PublishedOn.Format(listing.DateLayout))
	_, _ = fmt.Fprintf(out, "URL:   %s\n", match.URL)
	return nil
}
