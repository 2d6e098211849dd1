// Package capture takes screenshots for test log entries.
//
// Every backend writes a PNG file into the requested directory and returns
// its absolute path. A backend that cannot produce an image returns a
// *record.CaptureError, which callers treat as non-fatal.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harun/tclog/pkg/record"
)

// Capturer captures the current screen state into dir/name.png
type Capturer interface {
	Capture(ctx context.Context, dir, name string) (string, error)
	Backend() string
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLen = 40

// FileName derives a session-unique screenshot name from the entry sequence
// and case name, e.g. (4, "Case #3") -> "0004_case-3".
func FileName(sequence int, caseName string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(caseName), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return fmt.Sprintf("%04d", sequence)
	}
	return fmt.Sprintf("%04d_%s", sequence, slug)
}

// writePNG stores already encoded PNG bytes and returns the absolute path
func writePNG(backend, dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &record.CaptureError{Backend: backend, Err: fmt.Errorf("failed to create screenshot directory: %w", err)}
	}

	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &record.CaptureError{Backend: backend, Err: fmt.Errorf("failed to write screenshot: %w", err)}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Disabled never captures. It is used where no display exists, such as CI.
type Disabled struct{}

// NewDisabled returns a capturer that always reports capture as unavailable
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Capture always fails with a CaptureError
func (d *Disabled) Capture(ctx context.Context, dir, name string) (string, error) {
	return "", &record.CaptureError{Backend: d.Backend(), Err: ErrCaptureDisabled}
}

// Backend returns the backend name
func (d *Disabled) Backend() string {
	return "none"
}
