package naukri

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobalert/internal/domain"
	"jobalert/internal/fetch"
	"jobalert/internal/reltime"
	"jobalert/internal/scrape"
)

var errBlocked = errors.New("captcha or block page")

type Config struct {
	BaseURL string // https://www.naukri.com
	Limit   int
}

// Scraper reads Naukri search results. With a Renderer set, pages are
// rendered in a headless browser since the listing is built client-side.
type Scraper struct {
	cfg      Config
	fc       *fetch.Client
	renderer fetch.Renderer
}

func New(cfg Config, fc *fetch.Client, renderer fetch.Renderer) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.naukri.com"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 15
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Scraper{cfg: cfg, fc: fc, renderer: renderer}
}

func (s *Scraper) Name() domain.Source { return domain.SourceNaukri }

func (s *Scraper) searchURL(keyword, location string) string {
	q := url.Values{}
	q.Set("k", keyword)
	q.Set("l", location)
	return fmt.Sprintf("%s/%s-jobs-in-%s?%s", s.cfg.BaseURL, scrape.Slug(keyword), scrape.Slug(location), q.Encode())
}

func (s *Scraper) Scrape(ctx context.Context, keyword, location string) ([]domain.Job, error) {
	doc, err := s.load(ctx, s.searchURL(keyword, location))
	if err != nil {
		return nil, scrape.Unavailable(s.Name(), err)
	}

	jobs := s.parse(doc, location)
	if len(jobs) == 0 && looksBlocked(doc) {
		return nil, scrape.Unavailable(s.Name(), errBlocked)
	}
	return jobs, nil
}

func (s *Scraper) load(ctx context.Context, u string) (*goquery.Document, error) {
	if s.renderer == nil {
		return s.fc.Document(ctx, u)
	}
	html, err := s.renderer.Render(ctx, u)
	if err != nil {
		return nil, err
	}
	return fetch.ParseHTML(html)
}

func (s *Scraper) parse(doc *goquery.Document, location string) []domain.Job {
	cards := scrape.Cards(doc, s.cfg.Limit,
		"article.jobTuple",
		".srp-jobtuple-wrapper",
		`div[class*="jobTuple"]`,
		"div[data-job-id]",
	)

	var out []domain.Job
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl, title := scrape.FirstMatch(card, "a.title", ".title a", `a[class*="title"]`)
		if title == "" {
			return
		}
		href, _ := titleEl.Attr("href")

		j := domain.Job{
			Title:    title,
			Company:  scrape.FirstText(card, "a.comp-name", ".comp-name", `[class*="company"]`),
			Location: scrape.FirstText(card, ".loc", ".location", "li.location", `[class*="loc"]`),
			Link:     fetch.CanonicalURL(fetch.Resolve(s.cfg.BaseURL, href)),
			Source:   domain.SourceNaukri,
		}
		if j.Location == "" {
			j.Location = location
		}

		posted := scrape.FirstText(card, ".job-post-day", `span[class*="post-day"]`)
		if posted == "" {
			posted = reltime.Recently
		}
		j.PostedTime = reltime.FormatText(posted)

		out = append(out, j)
	})
	return out
}

func looksBlocked(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Find("title").Text() + " " + doc.Find("body").Text())
	return strings.Contains(text, "captcha") || strings.Contains(text, "access denied")
}
