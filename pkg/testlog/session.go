package testlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harun/tclog/internal/observability"
	"github.com/harun/tclog/internal/tracing"
	"github.com/harun/tclog/pkg/capture"
	"github.com/harun/tclog/pkg/opener"
	"github.com/harun/tclog/pkg/record"
	"github.com/harun/tclog/pkg/spreadsheet"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DocumentName is the file name of the spreadsheet inside the session directory
	DocumentName = "result.xlsx"
	// ScreenshotsDir is the sub-directory holding captured images
	ScreenshotsDir = "screenshots"

	tracerName = "tclog.testlog"
)

// ErrNotDirectory is wrapped in the IOError returned by Create when the
// target path exists but is not a directory
var ErrNotDirectory = errors.New("not a directory")

// EntryOptions are the per-call arguments of Log
type EntryOptions struct {
	CaseName string
	// Message is required for INFO, WARNING and ERROR and must be empty for SUCCESS
	Message string
	// MakeScreenshot captures the screen before the entry is recorded. Default false.
	MakeScreenshot bool
}

// Session accumulates the entries of one test run and writes them to
// <directory>/result.xlsx on Save. A session is owned by a single goroutine;
// parallel test units should each create their own in a distinct directory.
type Session struct {
	id             string
	directory      string
	screenshotsDir string
	path           string
	entries        []record.Entry

	capturer capture.Capturer
	opener   opener.Opener
	writer   *spreadsheet.Writer
	logger   zerolog.Logger
	now      func() time.Time
	saved    bool
}

// Option configures a Session
type Option func(*Session)

// WithCapturer replaces the default screen capturer
func WithCapturer(c capture.Capturer) Option {
	return func(s *Session) {
		if c != nil {
			s.capturer = c
		}
	}
}

// WithOpener replaces the OS document opener used by Save(ctx, true)
func WithOpener(o opener.Opener) Option {
	return func(s *Session) {
		if o != nil {
			s.opener = o
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Create opens a session bound to directory, creating it when absent.
// It fails with *record.IOError if the path is not a writable directory.
func Create(directory string, opts ...Option) (*Session, error) {
	observability.EnsureRegistered()

	if directory == "" {
		return nil, &record.ValidationError{Field: "directory", Reason: "directory cannot be empty"}
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return nil, &record.IOError{Op: "create", Path: directory, Err: err}
	}

	if err := ensureWritableDir(abs); err != nil {
		return nil, err
	}

	s := &Session{
		id:             tracing.NewRunID(),
		directory:      abs,
		screenshotsDir: filepath.Join(abs, ScreenshotsDir),
		path:           filepath.Join(abs, DocumentName),
		capturer:       capture.NewScreen(0),
		opener:         opener.NewSystem(),
		logger:         log.Logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().
		Str("component", "testlog").
		Str("run_id", s.id).
		Logger()
	s.writer = spreadsheet.NewWriter(s.logger)

	observability.SessionOpened()
	s.logger.Info().
		Str("dir", s.directory).
		Str("capture", s.capturer.Backend()).
		Msg("Test log session created")

	return s, nil
}

func ensureWritableDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return &record.IOError{Op: "create", Path: dir, Err: ErrNotDirectory}
	case err != nil && !os.IsNotExist(err):
		return &record.IOError{Op: "create", Path: dir, Err: err}
	case err != nil:
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &record.IOError{Op: "create", Path: dir, Err: err}
		}
	}

	probe, err := os.CreateTemp(dir, ".tclog-probe-*")
	if err != nil {
		return &record.IOError{Op: "create", Path: dir, Err: err}
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}

// ID returns the session (run) identifier
func (s *Session) ID() string {
	return s.id
}

// Directory returns the absolute session directory
func (s *Session) Directory() string {
	return s.directory
}

// Path returns the document path
func (s *Session) Path() string {
	return s.path
}

// Len returns the number of recorded entries
func (s *Session) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the recorded entries in insertion order
func (s *Session) Entries() []record.Entry {
	out := make([]record.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Info records an informational message
func (s *Session) Info(caseName, message string) error {
	_, err := s.Log(record.SeverityInfo, EntryOptions{CaseName: caseName, Message: message})
	return err
}

// Success records that a case passed. Success entries carry no message.
func (s *Session) Success(caseName string) error {
	_, err := s.Log(record.SeveritySuccess, EntryOptions{CaseName: caseName})
	return err
}

// Warning records a warning message
func (s *Session) Warning(caseName, message string) error {
	_, err := s.Log(record.SeverityWarning, EntryOptions{CaseName: caseName, Message: message})
	return err
}

// Error records an error message, optionally with a screenshot. A failed
// capture still records the entry and returns a *record.CaptureError.
func (s *Session) Error(caseName, message string, makeScreenshot bool) error {
	_, err := s.Log(record.SeverityError, EntryOptions{
		CaseName:       caseName,
		Message:        message,
		MakeScreenshot: makeScreenshot,
	})
	return err
}

// Log records an entry of any severity
func (s *Session) Log(severity record.Severity, opts EntryOptions) (record.Entry, error) {
	return s.LogContext(context.Background(), severity, opts)
}

// LogContext is Log with a caller supplied context for tracing.
//
// It returns *record.ValidationError without recording anything when the
// arguments break the severity contract. It returns the recorded entry
// together with *record.CaptureError when only the screenshot failed.
func (s *Session) LogContext(ctx context.Context, severity record.Severity, opts EntryOptions) (record.Entry, error) {
	entry := record.Entry{
		Sequence:  len(s.entries) + 1,
		CaseName:  opts.CaseName,
		Severity:  severity,
		Message:   opts.Message,
		Timestamp: s.now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		var vErr *record.ValidationError
		if errors.As(err, &vErr) {
			observability.RecordValidationError(vErr.Field)
		}
		return record.Entry{}, err
	}

	var captureErr error
	if opts.MakeScreenshot {
		entry.ScreenshotPath, captureErr = s.capture(ctx, entry)
	}

	s.entries = append(s.entries, entry)
	observability.RecordEntry(severity.String())

	s.logger.Debug().
		Int("seq", entry.Sequence).
		Str("severity", severity.String()).
		Str("case_name", entry.CaseName).
		Str("message", entry.Message).
		Bool("screenshot", entry.HasScreenshot()).
		Msg("Entry recorded")

	return entry, captureErr
}

func (s *Session) capture(ctx context.Context, entry record.Entry) (string, error) {
	ctx = tracing.WithCaseName(tracing.WithRunID(ctx, s.id), entry.CaseName)
	ctx, span := tracing.StartSpan(ctx, tracerName, "testlog.capture",
		attribute.String("run_id", s.id),
		attribute.String("backend", s.capturer.Backend()),
		attribute.Int("seq", entry.Sequence),
	)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, s.logger)

	start := time.Now()
	path, err := s.capturer.Capture(ctx, s.screenshotsDir, capture.FileName(entry.Sequence, entry.CaseName))
	observability.RecordCapture(s.capturer.Backend(), time.Since(start), err == nil)

	if err != nil {
		if !record.IsCaptureError(err) {
			err = &record.CaptureError{Backend: s.capturer.Backend(), Err: err}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).Msg("Screenshot unavailable, entry recorded without it")
		return "", err
	}

	logger.Debug().Str("path", path).Msg("Screenshot captured")
	return path, nil
}

// Save writes all entries to the document, replacing any earlier version,
// and opens it with the OS handler when openFile is set. Saving again with
// no new entries produces an equivalent document.
//
// A screenshot deleted since capture is saved without a link; the entry in
// the session keeps its path. Every failure to produce the document,
// rendering included, is a *record.IOError.
func (s *Session) Save(ctx context.Context, openFile bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = tracing.WithRunID(ctx, s.id)
	ctx, span := tracing.StartSpan(ctx, tracerName, "testlog.save",
		attribute.String("run_id", s.id),
		attribute.String("path", s.path),
		attribute.Int("entries", len(s.entries)),
		attribute.Bool("open_file", openFile),
	)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, s.logger)

	entries := s.Entries()
	for i, entry := range entries {
		if !entry.HasScreenshot() {
			continue
		}
		if _, err := os.Stat(entry.ScreenshotPath); err != nil {
			logger.Warn().
				Int("seq", entry.Sequence).
				Str("screenshot", entry.ScreenshotPath).
				Msg("Linked screenshot is missing, row saved without link")
			entries[i].ScreenshotPath = ""
		}
	}

	start := time.Now()
	err := s.writer.Write(s.path, entries)
	observability.RecordDocumentSave(time.Since(start), len(s.entries), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Msg("Failed to save test log")
		return err
	}

	if !s.saved {
		s.saved = true
		observability.SessionClosed()
	}

	logger.Info().
		Str("path", s.path).
		Int("entries", len(s.entries)).
		Msg("Test log saved")

	if openFile {
		if err := s.opener.Open(ctx, s.path); err != nil {
			span.RecordError(err)
			logger.Warn().Err(err).Msg("Failed to open test log")
			return fmt.Errorf("failed to open document: %w", err)
		}
	}

	return nil
}

// Delete removes the saved document. Screenshots are left in place.
func (s *Session) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &record.IOError{Op: "delete", Path: s.path, Err: err}
	}
	s.logger.Info().Str("path", s.path).Msg("Test log deleted")
	return nil
}
