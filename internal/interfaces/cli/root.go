// Package cli defines the ringsense command tree: global flags,
// configuration and logger initialisation, and the analyze subcommand.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/RingSense/internal/application/perception"
	"github.com/turtacn/RingSense/internal/config"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RingSense/internal/infrastructure/monitoring/prometheus"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	LogFormat    string
	OutputFormat string
}

// CLIContext carries the initialised dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      *perception.Service
	OutputFormat string
}

type cliContextKey struct{}

// GetCLIContext extracts the CLIContext installed by the root command.
func GetCLIContext(cmd *cobra.Command) *CLIContext {
	ctx, _ := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	return ctx
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "ringsense",
		Short:   "Ring perception and aromaticity analysis for SD files",
		Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := initContext(opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "override log level (debug|info|warn|error)")
	flags.StringVar(&opts.LogFormat, "log-format", "", "override log format (json|console)")
	flags.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table|json)")

	cmd.AddCommand(newAnalyzeCommand())
	return cmd
}

// initContext loads configuration, builds the logger, and wires the
// perception service.
func initContext(opts *RootOptions) (*CLIContext, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return nil, err
	}
	logging.SetDefault(log)

	var metrics *prometheus.PerceptionMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: cfg.Metrics.Namespace,
		}, log)
		if err != nil {
			return nil, err
		}
		metrics = prometheus.NewPerceptionMetrics(collector)
	}

	return &CLIContext{
		Config:       cfg,
		Logger:       log,
		Service:      perception.NewService(cfg, log, metrics),
		OutputFormat: opts.OutputFormat,
	}, nil
}

// Execute runs the root command; it is the entry point used by
// cmd/ringsense.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ringsense:", err)
		os.Exit(1)
	}
}
