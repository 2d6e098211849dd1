package capture

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// LaunchOptions configures a Chrome instance started for the browser backend
type LaunchOptions struct {
	URL        string
	ChromePath string
	Headless   bool
	FullPage   bool
}

// LaunchBrowser starts Chrome, opens opts.URL and returns a capturer bound to
// that page. The returned stop function kills the browser.
func LaunchBrowser(ctx context.Context, opts LaunchOptions) (*Browser, func(), error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless)
	if opts.ChromePath != "" {
		l = l.Bin(opts.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("failed to connect to CDP: %w", err)
	}

	stop := func() {
		browser.Close()
		l.Kill()
	}

	url := opts.URL
	if url == "" {
		url = "about:blank"
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to open page %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		stop()
		return nil, nil, fmt.Errorf("failed to load page %s: %w", url, err)
	}

	return NewBrowser(page, opts.FullPage), stop, nil
}
