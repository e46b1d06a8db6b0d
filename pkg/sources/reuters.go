package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
)

const reutersSourceID = "reuters"

// reutersScraper extracts headlines from the Reuters front page. Reuters story
// cards repeat the same link in several elements, so deduplication matters here.
type reutersScraper struct {
	client HTTPClient
}

// NewReutersScraper builds a scraper for Reuters headlines.
func NewReutersScraper(client HTTPClient) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &reutersScraper{client: client}
}

func (s *reutersScraper) ID() string {
	return reutersSourceID
}

func (s *reutersScraper) Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error) {
	if !strings.EqualFold(cfg.ID, reutersSourceID) {
		return nil, fmt.Errorf("reuters scraper received incompatible source %q", cfg.ID)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("reuters source url is empty")
	}

	body, err := fetchPage(ctx, s.client, cfg.URL, reutersSourceID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse reuters page: %w", err)
	}

	var headlines []domain.Headline
	doc.Find(`a[data-testid="Heading"], h3[class*="text__text__"] a, a[class*="text__text__"]`).Each(func(_ int, sel *goquery.Selection) {
		link, _ := sel.Attr("href")
		if h, ok := buildHeadline(cfg, sel.Text(), link, 15); ok {
			headlines = append(headlines, h)
		}
	})

	headlines = dedupeHeadlines(headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("reuters page yielded no headlines")
	}

	return headlines, nil
}
