package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/harun/tclog/internal/config"
	"github.com/harun/tclog/internal/observability"
	"github.com/harun/tclog/pkg/capture"
	"github.com/harun/tclog/pkg/replay"
	"github.com/harun/tclog/pkg/testlog"
	"github.com/spf13/cobra"
)

var (
	runOpen        bool
	runCapture     string
	runDir         string
	runURL         string
	runMetricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run <journal.yaml>",
	Short: "Replay a journal into a result document",
	Long: `Replay a YAML journal of test case entries into <dir>/result.xlsx.

The output directory is taken from --dir, then the journal's "directory"
field (relative to the journal file), then the configured directory.
Screenshot failures are reported as warnings and do not fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runOpen, "open", false, "open the document after saving")
	runCmd.Flags().StringVar(&runCapture, "capture", "", "screenshot backend (screen, browser, none); overrides config")
	runCmd.Flags().StringVarP(&runDir, "dir", "d", "", "output directory; overrides the journal and config")
	runCmd.Flags().StringVar(&runURL, "url", "", "page to open for the browser backend")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stopTracing, err := startTracing(ctx, cmd, cfg.Tracing)
	if err != nil {
		return err
	}
	defer stopTracing()

	if runCapture != "" {
		if err := config.NewValidator().ValidateCaptureBackend(runCapture); err != nil {
			return err
		}
		cfg.Capture.Backend = runCapture
	}
	if runURL != "" {
		cfg.Capture.URL = runURL
	}

	journalPath := args[0]
	journal, err := replay.NewLoader(log.GetZerolog()).LoadFile(journalPath)
	if err != nil {
		return err
	}

	dir := resolveOutputDir(runDir, journal.Directory, journalPath, cfg.Directory)

	capturer, stop, err := newCapturer(ctx, cfg.Capture)
	if err != nil {
		return err
	}
	defer stop()

	session, err := testlog.Create(dir,
		testlog.WithCapturer(capturer),
		testlog.WithLogger(log.GetZerolog()),
	)
	if err != nil {
		return fmt.Errorf("failed to create test log: %w", err)
	}

	res, err := replay.Replay(ctx, journal, session)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %v\n", w)
	}

	open := runOpen || journal.Open || cfg.OpenAfterSave
	if err := session.Save(ctx, open); err != nil {
		return err
	}

	fmt.Fprintf(out, "Recorded %d entries to %s\n", res.Recorded, session.Path())

	if runMetricsFile != "" {
		if err := observability.WriteTextfile(runMetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

// resolveOutputDir picks the session directory by precedence: flag, journal, config
func resolveOutputDir(flagDir, journalDir, journalPath, configDir string) string {
	switch {
	case flagDir != "":
		return flagDir
	case journalDir != "" && filepath.IsAbs(journalDir):
		return journalDir
	case journalDir != "":
		return filepath.Join(filepath.Dir(journalPath), journalDir)
	default:
		return configDir
	}
}

func newCapturer(ctx context.Context, cfg config.CaptureConfig) (capture.Capturer, func(), error) {
	switch cfg.Backend {
	case config.CaptureNone:
		return capture.NewDisabled(), func() {}, nil
	case config.CaptureBrowser:
		b, stop, err := capture.LaunchBrowser(ctx, capture.LaunchOptions{
			URL:        cfg.URL,
			ChromePath: cfg.ChromePath,
			Headless:   cfg.Headless,
			FullPage:   cfg.FullPage,
		})
		if err != nil {
			return nil, nil, err
		}
		return b, stop, nil
	default:
		return capture.NewScreen(cfg.Display), func() {}, nil
	}
}
