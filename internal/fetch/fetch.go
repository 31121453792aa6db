// Package fetch retrieves web pages for catalog link checks.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the user agent string for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; RoadmapAgent/1.0)"
	// DefaultConcurrency bounds CheckAll when no limit is given
	DefaultConcurrency = 8
	// maxBodyBytes caps how much of a page is read
	maxBodyBytes = 2 << 20
)

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
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
	Headers   map[string]string
	Client    *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// URL retrieves HTML content from a URL. Bodies beyond 2 MiB are cut off.
// A non-200 status returns both the result and an *Error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
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

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// PageTitle returns the trimmed text of the document's <title>, or the first
// <h1> when the title is empty.
func PageTitle(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := cleanWhitespace(doc.Find("head title").First().Text())
	if title == "" {
		title = cleanWhitespace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = cleanWhitespace(doc.Find("h1").First().Text())
	}
	return title, nil
}

// LinkStatus is the outcome of probing one URL.
type LinkStatus struct {
	URL        string
	StatusCode int
	Title      string
	Err        error
}

// OK reports whether the URL answered 200.
func (s LinkStatus) OK() bool {
	return s.Err == nil && s.StatusCode == http.StatusOK
}

// CheckAll probes every URL with at most concurrency requests in flight.
// Per-URL failures land in LinkStatus.Err; the returned error is only set when
// ctx ends first. Results keep the order of urls.
func CheckAll(ctx context.Context, urls []string, concurrency int, opts *Options) ([]LinkStatus, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	results := make([]LinkStatus, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = check(gctx, u, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func check(ctx context.Context, u string, opts *Options) LinkStatus {
	status := LinkStatus{URL: u}
	res, err := URL(ctx, u, opts)
	if res != nil {
		status.StatusCode = res.StatusCode
		if title, titleErr := PageTitle(res.HTML); titleErr == nil {
			status.Title = title
		}
	}
	status.Err = err
	return status
}

// cleanWhitespace collapses runs of whitespace into single spaces.
func cleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
