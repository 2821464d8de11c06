// Package scrape wires the extraction pipeline together: fetch one URL,
// run the structured and heuristic extraction passes, normalize everything
// into a typed record and rate the result. One invocation is one stateless
// pipeline; nothing here is persisted or retried.
package scrape

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/event"
	"github.com/eventscope/eventscope/pkg/extract"
	"github.com/eventscope/eventscope/pkg/fetch"
)

// ErrNoExtractableContent means the minimal viable subset (title, start
// date, city, state) could not be resolved after both extraction passes.
var ErrNoExtractableContent = errors.New("no extractable event content")

// DefaultTimeout bounds one whole invocation: fetch, render, extraction and
// normalization together.
const DefaultTimeout = 60 * time.Second

// Result is the pair returned to callers on success.
type Result struct {
	Data event.ScrapedEventData `json:"data"`
	Meta event.ScrapeMeta       `json:"meta"`
}

type Scraper struct {
	fetcher fetch.Fetcher
	now     func() time.Time
}

func New(fetcher fetch.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher, now: time.Now}
}

// Scrape turns one event page URL into a normalized record plus extraction
// metadata. Every failure is a typed value: a *fetch.Error for transport
// problems, ErrNoExtractableContent when the page has no usable event.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, &fetch.Error{Kind: fetch.KindNonHTML, URL: rawURL, Err: err}
	}

	fields := extract.Fields{}
	hasStructured, hasSocial := extract.Structured(doc, fields)
	extract.Heuristic(doc, fields, rawURL)

	// The deadline covers parsing too; a page that rendered in time can
	// still lose the race here.
	if err := ctx.Err(); err != nil {
		return nil, &fetch.Error{Kind: fetch.KindTimeout, URL: rawURL, Err: err}
	}

	text := extract.VisibleText(doc)
	result := assemble(fields, text, rawURL, hasStructured, hasSocial, s.now().UTC())
	if !result.Data.Viable() {
		utils.Log.Debug("extraction not viable for ", rawURL,
			" (structured=", hasStructured, " social=", hasSocial, ")")
		return nil, ErrNoExtractableContent
	}

	utils.Log.Info("scraped ", rawURL, " confidence=", result.Meta.Confidence)
	return result, nil
}
