package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/harun/tclog/pkg/record"
	"github.com/kbinani/screenshot"
)

// Screen captures a whole desktop display
type Screen struct {
	display     int
	numDisplays func() int
	grab        func(display int) (*image.RGBA, error)
}

// NewScreen creates a capturer for the given display index (0 is the primary display)
func NewScreen(display int) *Screen {
	return &Screen{
		display:     display,
		numDisplays: screenshot.NumActiveDisplays,
		grab:        screenshot.CaptureDisplay,
	}
}

// Backend returns the backend name
func (s *Screen) Backend() string {
	return "screen"
}

// Capture grabs the display and writes it to dir/name.png
func (s *Screen) Capture(ctx context.Context, dir, name string) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", &record.CaptureError{Backend: s.Backend(), Err: err}
	}

	// the X11 client panics on some half-configured displays
	defer func() {
		if r := recover(); r != nil {
			path = ""
			err = &record.CaptureError{Backend: s.Backend(), Err: fmt.Errorf("display capture panicked: %v", r)}
		}
	}()

	n := s.numDisplays()
	if n == 0 {
		return "", &record.CaptureError{Backend: s.Backend(), Err: ErrNoDisplay}
	}
	if s.display < 0 || s.display >= n {
		return "", &record.CaptureError{
			Backend: s.Backend(),
			Err:     fmt.Errorf("%w: %d (active displays: %d)", ErrDisplayOutOfRange, s.display, n),
		}
	}

	img, err := s.grab(s.display)
	if err != nil {
		return "", &record.CaptureError{Backend: s.Backend(), Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", &record.CaptureError{Backend: s.Backend(), Err: fmt.Errorf("failed to encode screenshot: %w", err)}
	}

	return writePNG(s.Backend(), dir, name, buf.Bytes())
}
