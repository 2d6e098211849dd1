package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harun/tclog/internal/config"
	"github.com/harun/tclog/internal/logger"
	"github.com/harun/tclog/internal/tracing"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tclog",
	Short: "tclog - test case result logger",
	Long: `tclog records the outcome of automated test cases into an xlsx document,
one color-coded row per entry, with optional screenshots linked from the row.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tclog/tclog.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// setup loads the configuration and installs the diagnostic logger.
// An explicit --log-level wins over the configured level.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		if err := config.NewValidator().ValidateLogLevel(logLevel); err != nil {
			return nil, nil, err
		}
		cfg.Logging.Level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, log, nil
}

// startTracing installs the configured span exporter. The returned function
// flushes pending spans and closes the span file.
func startTracing(ctx context.Context, cmd *cobra.Command, cfg config.TracingConfig) (func(), error) {
	var (
		w    io.Writer = cmd.ErrOrStderr()
		file *os.File
	)
	if cfg.Exporter == tracing.ExporterStdout && cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace file: %w", err)
		}
		w, file = f, f
	}

	shutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "tclog",
		ServiceVersion: version,
		Exporter:       cfg.Exporter,
		Writer:         w,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
	})
	if err != nil {
		if file != nil {
			file.Close()
		}
		return nil, fmt.Errorf("failed to start tracing: %w", err)
	}

	return func() {
		_ = shutdown(context.Background())
		if file != nil {
			file.Close()
		}
	}, nil
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
