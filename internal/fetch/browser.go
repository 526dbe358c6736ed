// Package fetch - browser.go provides headless browser rendering for boards that build their listing with JavaScript.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserOptions configures headless rendering.
type BrowserOptions struct {
	Timeout   time.Duration
	UserAgent string
	// WaitSelector is awaited before the HTML is captured; defaults to body.
	WaitSelector string
	// Settle is an extra pause for scripts that populate the page after load.
	Settle time.Duration
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.WaitSelector == "" {
		opts.WaitSelector = "body"
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(opts.WaitSelector),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	return html, nil
}

// Page fetches an HTML page over plain HTTP, or through the headless browser when useBrowser is set.
func Page(ctx context.Context, url string, opts *Options, useBrowser bool) (string, error) {
	if !useBrowser {
		result, err := URL(ctx, url, opts)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	}

	if opts == nil {
		opts = DefaultOptions()
	}
	html, err := WithBrowser(ctx, url, BrowserOptions{
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
	})
	if err != nil {
		return "", fmt.Errorf("headless fetch failed: %w", err)
	}
	return html, nil
}
