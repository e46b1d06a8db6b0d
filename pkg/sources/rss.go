package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
	"github.com/mmcdole/gofeed"
)

// rssScraper implements Scraper for RSS/Atom feed sources.
type rssScraper struct {
	client HTTPClient
}

func NewRSSScraper(client HTTPClient) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssScraper{client: client}
}

func (s *rssScraper) ID() string {
	return SourceTypeRSS
}

func (s *rssScraper) Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error) {
	if !strings.EqualFold(cfg.Type, SourceTypeRSS) {
		return nil, fmt.Errorf("rss scraper received incompatible source type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("source %q url is empty", cfg.ID)
	}

	body, err := fetchPage(ctx, s.client, cfg.URL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", cfg.ID, err)
	}

	headlines := make([]domain.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if h, ok := buildHeadline(cfg, item.Title, item.Link, 1); ok {
			headlines = append(headlines, h)
		}
	}

	headlines = dedupeHeadlines(headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("%s feed contained no items", cfg.ID)
	}

	return headlines, nil
}
