package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
)

const bbcSourceID = "bbc"

// bbcScraper extracts headlines from the BBC News front page.
type bbcScraper struct {
	client HTTPClient
}

// NewBBCScraper builds a scraper for BBC News headlines.
func NewBBCScraper(client HTTPClient) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &bbcScraper{client: client}
}

func (s *bbcScraper) ID() string {
	return bbcSourceID
}

func (s *bbcScraper) Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error) {
	if !strings.EqualFold(cfg.ID, bbcSourceID) {
		return nil, fmt.Errorf("bbc scraper received incompatible source %q", cfg.ID)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("bbc source url is empty")
	}

	body, err := fetchPage(ctx, s.client, cfg.URL, bbcSourceID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse bbc page: %w", err)
	}

	headlines := extractBBCPromos(cfg, doc)
	if len(headlines) == 0 {
		// Promo card markup changes regularly; fall back to tagged links.
		headlines = extractBBCLinks(cfg, doc)
	}
	if len(headlines) == 0 {
		return nil, fmt.Errorf("bbc page yielded no headlines")
	}

	return dedupeHeadlines(headlines), nil
}

func extractBBCPromos(cfg Source, doc *goquery.Document) []domain.Headline {
	var out []domain.Headline
	doc.Find(`h3.gs-c-promo-heading__title, h2[data-testid="card-headline"]`).Each(func(_ int, sel *goquery.Selection) {
		link, _ := sel.Closest("a").Attr("href")
		if link == "" {
			link, _ = sel.ParentsFiltered("div").First().Find("a").First().Attr("href")
		}
		if h, ok := buildHeadline(cfg, sel.Text(), link, 10); ok {
			out = append(out, h)
		}
	})
	return out
}

func extractBBCLinks(cfg Source, doc *goquery.Document) []domain.Headline {
	var out []domain.Headline
	doc.Find(`a[data-testid="internal-link"]`).Each(func(_ int, sel *goquery.Selection) {
		link, _ := sel.Attr("href")
		if h, ok := buildHeadline(cfg, sel.Text(), link, 15); ok {
			out = append(out, h)
		}
	})
	return out
}
