package capture

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/harun/tclog/pkg/record"
)

// Browser captures a go-rod page, for web UI autotests that drive Chrome
type Browser struct {
	page     *rod.Page
	fullPage bool
}

// NewBrowser creates a capturer bound to page. When fullPage is set the
// whole scrollable document is captured instead of the viewport.
func NewBrowser(page *rod.Page, fullPage bool) *Browser {
	return &Browser{
		page:     page,
		fullPage: fullPage,
	}
}

// Backend returns the backend name
func (b *Browser) Backend() string {
	return "browser"
}

// Capture screenshots the page into dir/name.png
func (b *Browser) Capture(ctx context.Context, dir, name string) (string, error) {
	if b.page == nil {
		return "", &record.CaptureError{Backend: b.Backend(), Err: ErrNoPage}
	}

	data, err := b.page.Context(ctx).Screenshot(b.fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", &record.CaptureError{
			Backend: b.Backend(),
			Err:     fmt.Errorf("failed to capture page screenshot: %w", err),
		}
	}

	return writePNG(b.Backend(), dir, name, data)
}
