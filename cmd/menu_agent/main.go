// Package main provides the entry point for the weekly menu agent.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyo-lab/weeklymenu/internal/config"
	"github.com/gyo-lab/weeklymenu/internal/observability"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "menu_agent",
	Short: "Publish the weekly cafeteria menu",
	Long: `Finds the latest weekly menu post on the assembly bulletin board, downloads its PDF,
renders page one to JPEG, extracts the menu table to JSON and uploads the image to the
configured GitHub repository.

With no subcommand the full pipeline runs once. Subcommands run a single stage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipelineCmd,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig resolves the effective configuration and a logger for it.
func loadConfig() (*config.Config, *observability.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log := observability.NewLogger(observability.LogConfig{
		Level:  level,
		Format: cfg.Log.Format,
	})
	if configPath != "" {
		log.Debug().Str("path", configPath).Msg("loaded config")
	}
	return cfg, log, nil
}

// printer returns the verbose-mode summary printer, or nil.
func printer() *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(os.Stdout)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
