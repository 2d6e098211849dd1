package record

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies a log entry
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Severities lists all severities in display order
var Severities = []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError}

// ParseSeverity converts a case-insensitive name into a Severity
func ParseSeverity(name string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", &ValidationError{
			Field:  "severity",
			Reason: fmt.Sprintf("unknown severity %q (must be one of: info, success, warning, error)", name),
		}
	}
	return s, nil
}

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// RequiresMessage reports whether entries of this severity must carry a message
func (s Severity) RequiresMessage() bool {
	return s != SeveritySuccess
}

func (s Severity) String() string {
	return string(s)
}

// Entry is a single classified record of a test log.
// Entries are values; a session hands out copies only.
type Entry struct {
	Sequence       int       `json:"sequence"`
	CaseName       string    `json:"caseName"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message,omitempty"`
	ScreenshotPath string    `json:"screenshotPath,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// HasScreenshot reports whether a screenshot is attached
func (e Entry) HasScreenshot() bool {
	return e.ScreenshotPath != ""
}

// Validate checks the entry fields against the severity contract
func (e Entry) Validate() error {
	if !e.Severity.Valid() {
		return &ValidationError{Field: "severity", Reason: fmt.Sprintf("unknown severity %q", e.Severity)}
	}
	if strings.TrimSpace(e.CaseName) == "" {
		return &ValidationError{Field: "caseName", Reason: "case name cannot be empty"}
	}
	if e.Severity.RequiresMessage() && strings.TrimSpace(e.Message) == "" {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("message is required for %s entries", e.Severity)}
	}
	if !e.Severity.RequiresMessage() && e.Message != "" {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("%s entries do not take a message", e.Severity)}
	}
	return nil
}
