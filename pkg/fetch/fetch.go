// Package fetch resolves one URL into rendered page content within a time
// budget. Two fetchers implement the same contract: RenderFetcher drives a
// pooled headless browser so client-side event pages come back fully built,
// and PlainFetcher does a direct HTTP GET for deployments without a browser.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/render"
)

type Kind string

const (
	KindInvalidURL  Kind = "invalid_url"
	KindUnreachable Kind = "unreachable"
	KindTimeout     Kind = "timeout"
	KindHTTPStatus  Kind = "http_status"
	KindNonHTML     Kind = "non_html_content"
)

// Error is the typed failure surface of a fetch. Always fatal to the call;
// no partial content accompanies it.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: upstream returned status %d", e.URL, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the fetch error kind, or "" if err is not a fetch error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Page is the rendered content of one URL.
type Page struct {
	URL   string
	HTML  string
	Title string
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	return u, nil
}

// subBudget bounds the fetch/render phase so parsing and normalization keep
// headroom inside the caller's deadline: two thirds of what remains, capped.
func subBudget(ctx context.Context) time.Duration {
	const capped = 40 * time.Second
	deadline, ok := ctx.Deadline()
	if !ok {
		return capped
	}
	b := time.Until(deadline) * 2 / 3
	if b > capped {
		return capped
	}
	return b
}

func classify(rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}
	return &Error{Kind: KindUnreachable, URL: rawURL, Err: err}
}

// RenderFetcher fetches through the browser pool.
type RenderFetcher struct {
	Pool *render.Pool
}

func (f *RenderFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	renderCtx, cancel := context.WithTimeout(ctx, subBudget(ctx))
	defer cancel()

	session, err := f.Pool.Acquire(renderCtx)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer session.Release()

	html, err := session.Render(renderCtx, rawURL)
	if err != nil {
		return nil, classify(rawURL, err)
	}

	utils.Log.Debug("rendered ", rawURL, " (", len(html), " bytes)")
	return &Page{URL: rawURL, HTML: html, Title: htmlTitle(html)}, nil
}

const (
	maxBodyBytes = 5 << 20
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// PlainFetcher does a single direct GET. The pipeline does not retry
// (retrying is the caller's decision), so the client is configured with
// RetryMax 0; the retryablehttp plumbing still gives us sane timeouts and
// connection reuse.
type PlainFetcher struct {
	Client *retryablehttp.Client
}

func NewPlainFetcher() *PlainFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.HTTPClient.Timeout = 30 * time.Second
	return &PlainFetcher{Client: client}
}

func (f *PlainFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, subBudget(ctx))
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, classify(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindHTTPStatus, URL: rawURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return nil, &Error{Kind: KindNonHTML, URL: rawURL, Err: fmt.Errorf("content-type %q", contentType)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(rawURL, err)
	}

	html := string(body)
	return &Page{URL: rawURL, HTML: html, Title: htmlTitle(html)}, nil
}
