package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/pipeline/steps"
)

var downloadCmd = &cobra.Command{
	Use:   steps.StepDownload,
	Short: steps.StepRegistry[steps.StepDownload].Description,
	Long:  "Downloads the menu PDF. Without --url the listing board is scanned first to find it.",
	RunE:  runDownload,
}

var (
	downloadURL string
	downloadOut string
)

func init() {
	downloadCmd.Flags().StringVar(&downloadURL, "url", "", "Direct download URL (optional, scanned from the board if not provided)")
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "Path to write the PDF (defaults to paths.document)")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	out := cfg.Paths.Document
	if downloadOut != "" {
		out = downloadOut
	}

	url := downloadURL
	if url == "" {
		match, err := scanListing(cmd, cfg, log)
		if err != nil {
			return err
		}
		if match == nil {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No weekly menu post found")
			return nil
		}
		url = match.URL
	}

	deps, err := stageDeps(cfg, log)
	if err != nil {
		return err
	}
	n, err := deps.Fetcher.Download(cmd.Context(), url, out)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d bytes to %s\n", n, out)
	return nil
}
