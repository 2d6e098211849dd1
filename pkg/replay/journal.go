package replay

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harun/tclog/pkg/record"
	"github.com/harun/tclog/pkg/testlog"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Journal is a scripted test log: a list of entries to record into a session
type Journal struct {
	Directory string         `yaml:"directory"`
	Open      bool           `yaml:"open"`
	Entries   []JournalEntry `yaml:"entries" validate:"dive"`
}

// JournalEntry is one scripted entry
type JournalEntry struct {
	Case       string `yaml:"case" validate:"required"`
	Severity   string `yaml:"severity" validate:"required"`
	Message    string `yaml:"message,omitempty"`
	Screenshot bool   `yaml:"screenshot,omitempty"`
}

// Result summarizes a replay
type Result struct {
	Recorded int
	// Warnings holds the non-fatal capture errors, one per affected entry
	Warnings []error
}

// Loader parses and validates journal scripts
type Loader struct {
	logger       zerolog.Logger
	schemaLoader gojsonschema.JSONLoader
	validate     *validator.Validate
}

// NewLoader creates a new journal loader
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger:       logger.With().Str("component", "journal-loader").Logger(),
		schemaLoader: gojsonschema.NewStringLoader(JournalSchema),
		validate:     validator.New(),
	}
}

// LoadFile reads and parses a journal from path
func (l *Loader) LoadFile(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	j, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.Debug().
		Str("path", path).
		Int("entries", len(j.Entries)).
		Msg("Journal loaded")

	return j, nil
}

// Parse decodes a YAML journal and checks it against JournalSchema
func (l *Loader) Parse(data []byte) (*Journal, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse journal YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("journal is empty")
	}

	if err := l.validateSchema(doc); err != nil {
		return nil, err
	}

	var j Journal
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to decode journal: %w", err)
	}

	if err := l.validate.Struct(&j); err != nil {
		return nil, fmt.Errorf("invalid journal: %w", err)
	}

	return &j, nil
}

func (l *Loader) validateSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(l.schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation errors: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// Replay records every journal entry into session, in order. Capture
// failures are collected as warnings; any other error stops the replay.
func Replay(ctx context.Context, j *Journal, session *testlog.Session) (*Result, error) {
	res := &Result{}

	for i, e := range j.Entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		severity, err := record.ParseSeverity(e.Severity)
		if err != nil {
			return res, fmt.Errorf("entry %d (%s): %w", i+1, e.Case, err)
		}

		_, err = session.LogContext(ctx, severity, testlog.EntryOptions{
			CaseName:       e.Case,
			Message:        e.Message,
			MakeScreenshot: e.Screenshot,
		})
		switch {
		case err == nil:
		case record.IsCaptureError(err):
			res.Warnings = append(res.Warnings, fmt.Errorf("entry %d (%s): %w", i+1, e.Case, err))
		default:
			return res, fmt.Errorf("entry %d (%s): %w", i+1, e.Case, err)
		}
		res.Recorded++
	}

	return res, nil
}
