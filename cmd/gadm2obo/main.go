// Package main provides the gadm2obo binary entry point.
// gadm2obo converts GADM-style administrative-boundary datasets into
// a single-rooted OBO taxonomy.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobular/GADM-to-OBO/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "gadm2obo"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath   string
		continents   string
		output       string
		logLevel     string
		metricsAddr  string
		maxLevel     int
		disambiguate bool
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "gadm2obo [flags] <dataset-stem>",
		Short: "Convert GADM administrative boundaries to an OBO taxonomy",
		Long: `gadm2obo ingests per-level GADM CSV files ("<stem>_adm0.csv",
"<stem>_adm1.csv", ...), builds a taxonomy of is_a-linked terms,
merges the continents hierarchy so every country chains up to a
global root, disambiguates duplicate names with parenthetical
qualifiers, and emits the result as an OBO document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(logLevel)

			loader := config.NewLoader(logger)
			cfg, err := loader.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Flags override file values only when set.
			flags := cmd.Flags()
			if flags.Changed("max-level") {
				cfg.Ingest.MaxLevel = maxLevel
			}
			if flags.Changed("continents") {
				cfg.Ingest.ContinentsSource = continents
			}
			if flags.Changed("disambiguate") {
				cfg.Taxonomy.Disambiguate = &disambiguate
			}
			if flags.Changed("output") {
				cfg.Output.Path = output
			}
			if flags.Changed("watch") {
				cfg.Watch.Enabled = watch
			}
			if flags.Changed("metrics-addr") {
				cfg.Watch.MetricsAddr = metricsAddr
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			app := NewApp(cfg, logger)
			if cfg.Watch.Enabled {
				return app.Watch(cmd.Context(), args[0])
			}
			return app.RunOnce(args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&continents, "continents", "", "Continents hierarchy file (required unless configured)")
	cmd.Flags().IntVar(&maxLevel, "max-level", 2, "Highest administrative level to ingest")
	cmd.Flags().BoolVar(&disambiguate, "disambiguate", true, "Disambiguate duplicate names")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild whenever an input file changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics at this address (watch mode)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
