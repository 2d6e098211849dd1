package record

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a caller supplies invalid arguments.
// Nothing is appended when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CaptureError is returned when a screenshot could not be taken.
// It is non-fatal: the entry that requested the screenshot is still recorded.
type CaptureError struct {
	Backend string
	Err     error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("screenshot capture failed (%s): %v", e.Backend, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// IOError is returned when the session directory or the document cannot
// be produced
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsCaptureError reports whether err is or wraps a CaptureError
func IsCaptureError(err error) bool {
	var target *CaptureError
	return errors.As(err, &target)
}

// IsIOError reports whether err is or wraps an IOError
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
