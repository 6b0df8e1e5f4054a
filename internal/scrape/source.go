// Package scrape defines the job sources the pipeline polls.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobalert/internal/domain"
)

// ErrSourceUnavailable marks a failed or blocked fetch. Callers treat the
// source's contribution as empty and carry on.
var ErrSourceUnavailable = errors.New("source unavailable")

type Source interface {
	Name() domain.Source
	Scrape(ctx context.Context, keyword, location string) ([]domain.Job, error)
}

func Unavailable(src domain.Source, err error) error {
	return fmt.Errorf("%s: %w: %v", src, ErrSourceUnavailable, err)
}

// FirstText returns the text of the first selector that matches with
// non-empty text. Selectors are tried in priority order, not document order.
func FirstText(s *goquery.Selection, selectors ...string) string {
	_, text := FirstMatch(s, selectors...)
	return text
}

// FirstMatch is FirstText that also returns the matched node.
func FirstMatch(s *goquery.Selection, selectors ...string) (*goquery.Selection, string) {
	for _, sel := range selectors {
		found := s.Find(sel).First()
		if found.Length() == 0 {
			continue
		}
		if t := domain.CleanText(found.Text()); t != "" {
			return found, t
		}
	}
	return nil, ""
}

// Cards returns the matches of the first selector that finds anything,
// capped at limit when limit > 0.
func Cards(doc *goquery.Document, limit int, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		if limit > 0 && found.Length() > limit {
			found = found.Slice(0, limit)
		}
		return found
	}
	return doc.Find("__none__")
}

// Slug turns a phrase into a lower-case, dash-separated path segment.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
