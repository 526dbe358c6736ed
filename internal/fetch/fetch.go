// Package fetch provides HTTP fetching for the listing page and the menu document.
// This package centralizes request headers, charset handling and download-to-file logic.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is a desktop browser user agent; the board rejects obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Result holds the raw and decoded content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Charset     string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Referer   string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves an HTML page and decodes it to UTF-8.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	resp, err := get(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	contentType := resp.Header.Get("Content-Type")
	html, name := decode(bodyBytes, contentType)
	result := &Result{
		URL:         urlStr,
		HTML:        html,
		Charset:     name,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// Download writes the response body of urlStr to path when the server answers 200.
// The body is staged next to path and renamed into place, so path is only ever
// replaced by a complete transfer. It returns the number of bytes written.
func Download(ctx context.Context, urlStr, path string, opts *Options) (int64, error) {
	resp, err := get(ctx, urlStr, opts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return n, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("failed to move download to %s: %w", path, err)
	}
	return n, nil
}

// get issues a GET with the configured headers. The caller closes the body.
func get(ctx context.Context, urlStr string, opts *Options) (*http.Response, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	if opts.Referer != "" {
		req.Header.Set("Referer", opts.Referer)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	return resp, nil
}

// decode converts an HTML body to UTF-8. A charset declared in the header or
// the document wins; otherwise valid UTF-8 is kept and anything else is sniffed.
func decode(body []byte, contentType string) (string, string) {
	if enc, name, certain := charset.DetermineEncoding(body, contentType); certain {
		if out, err := enc.NewDecoder().Bytes(body); err == nil {
			return string(out), name
		}
	}
	if utf8.Valid(body) {
		return string(body), "utf-8"
	}

	detected := DetectCharset(body)
	if enc, name := charset.Lookup(detected); enc != nil {
		if out, err := enc.NewDecoder().Bytes(body); err == nil {
			return string(out), name
		}
	}
	return string(body), "unknown"
}

// DetectCharset guesses the charset of raw bytes, defaulting to utf-8.
func DetectCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return result.Charset
}
