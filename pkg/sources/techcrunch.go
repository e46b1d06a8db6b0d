package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
)

const techcrunchSourceID = "techcrunch"

// techcrunchScraper extracts post titles from the TechCrunch front page.
type techcrunchScraper struct {
	client HTTPClient
}

// NewTechCrunchScraper builds a scraper for TechCrunch headlines.
func NewTechCrunchScraper(client HTTPClient) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &techcrunchScraper{client: client}
}

func (s *techcrunchScraper) ID() string {
	return techcrunchSourceID
}

func (s *techcrunchScraper) Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error) {
	if !strings.EqualFold(cfg.ID, techcrunchSourceID) {
		return nil, fmt.Errorf("techcrunch scraper received incompatible source %q", cfg.ID)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("techcrunch source url is empty")
	}

	body, err := fetchPage(ctx, s.client, cfg.URL, techcrunchSourceID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse techcrunch page: %w", err)
	}

	var headlines []domain.Headline
	doc.Find(`h2.post-block__title, h3.loop-card__title, h2.wp-block-post-title`).Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find("a").First()
		link, _ := anchor.Attr("href")
		title := anchor.Text()
		if strings.TrimSpace(title) == "" {
			title = sel.Text()
		}
		if h, ok := buildHeadline(cfg, title, link, 1); ok {
			headlines = append(headlines, h)
		}
	})

	headlines = dedupeHeadlines(headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("techcrunch page yielded no headlines")
	}

	return headlines, nil
}
