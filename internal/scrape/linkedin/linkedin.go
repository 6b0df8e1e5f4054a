package linkedin

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobalert/internal/domain"
	"jobalert/internal/fetch"
	"jobalert/internal/reltime"
	"jobalert/internal/scrape"
)

type Config struct {
	BaseURL string // https://www.linkedin.com
	Limit   int    // cards per search page
}

type Scraper struct {
	cfg Config
	fc  *fetch.Client
	now func() time.Time
}

func New(cfg Config, fc *fetch.Client) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.linkedin.com"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 15
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Scraper{cfg: cfg, fc: fc, now: time.Now}
}

func (s *Scraper) Name() domain.Source { return domain.SourceLinkedIn }

func (s *Scraper) searchURL(keyword, location string) string {
	q := url.Values{}
	q.Set("keywords", keyword)
	q.Set("location", location)
	return s.cfg.BaseURL + "/jobs/search/?" + q.Encode()
}

func (s *Scraper) Scrape(ctx context.Context, keyword, location string) ([]domain.Job, error) {
	doc, err := s.fc.Document(ctx, s.searchURL(keyword, location))
	if err != nil {
		return nil, scrape.Unavailable(s.Name(), err)
	}
	return s.parse(doc, location), nil
}

func (s *Scraper) parse(doc *goquery.Document, location string) []domain.Job {
	now := s.now()
	cards := scrape.Cards(doc, s.cfg.Limit,
		"div.base-search-card__info",
		"li.jobs-search-results__list-item",
		"div.job-search-card",
	)

	var out []domain.Job
	cards.Each(func(_ int, card *goquery.Selection) {
		title := scrape.FirstText(card,
			"h3.base-search-card__title",
			"h3.job-card-list__title",
			"a.job-card-list__title",
		)
		if title == "" {
			return
		}

		j := domain.Job{
			Title: title,
			Company: scrape.FirstText(card,
				"a.hidden-nested-link",
				"h4.base-search-card__subtitle",
				"a.job-card-container__link",
			),
			Location: scrape.FirstText(card,
				"span.job-search-card__location",
				"span.job-card-container__metadata-item",
			),
			Link:   fetch.CanonicalURL(fetch.Resolve(s.cfg.BaseURL, cardLink(card))),
			Source: domain.SourceLinkedIn,
		}
		if j.Location == "" {
			j.Location = location
		}

		if raw := scrape.FirstText(card,
			"time",
			"span.job-search-card__listdate",
			"span.job-search-card__listdate--new",
		); raw != "" {
			if t, ok := reltime.Parse(raw, now); ok {
				j.ParsedTime = &t
				j.PostedTime = reltime.Format(t, now)
			} else {
				j.PostedTime = reltime.FormatText(raw)
			}
		}

		out = append(out, j)
	})
	return out
}

// The full-card anchor is a sibling of the info block inside div.base-card.
func cardLink(card *goquery.Selection) string {
	for _, scope := range []*goquery.Selection{card, card.Closest("div.base-card"), card.Parent()} {
		if href, ok := scope.Find("a.base-card__full-link").First().Attr("href"); ok {
			return href
		}
	}
	if href, ok := card.Find("a[href]").First().Attr("href"); ok {
		return href
	}
	return ""
}
