package capture

import "errors"

var (
	// ErrNoDisplay is returned when no active display can be captured (headless)
	ErrNoDisplay = errors.New("no active display")

	// ErrDisplayOutOfRange is returned when the configured display index does not exist
	ErrDisplayOutOfRange = errors.New("display index out of range")

	// ErrNoPage is returned when the browser backend has no page attached
	ErrNoPage = errors.New("no browser page attached")

	// ErrCaptureDisabled is returned by the disabled backend
	ErrCaptureDisabled = errors.New("screenshot capture is disabled")
)
