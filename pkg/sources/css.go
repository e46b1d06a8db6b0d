package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
)

// Config keys understood by the css source type.
const (
	ConfigSelectorKey    = "selector"
	ConfigMinTitleLenKey = "min_title_len"
)

// cssScraper implements Scraper for sources configured with a CSS selector.
// It covers sites that do not warrant a dedicated scraper file.
type cssScraper struct {
	client HTTPClient
}

func NewCSSScraper(client HTTPClient) Scraper {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &cssScraper{client: client}
}

func (s *cssScraper) ID() string {
	return SourceTypeCSS
}

func (s *cssScraper) Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error) {
	if !strings.EqualFold(cfg.Type, SourceTypeCSS) {
		return nil, fmt.Errorf("css scraper received incompatible source type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("source %q url is empty", cfg.ID)
	}

	selector := ConfigString(cfg, ConfigSelectorKey, "")
	if selector == "" {
		return nil, fmt.Errorf("source %q is missing config.%s", cfg.ID, ConfigSelectorKey)
	}
	minTitleLen := ConfigInt(cfg, ConfigMinTitleLenKey, 10)

	body, err := fetchPage(ctx, s.client, cfg.URL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", cfg.ID, err)
	}

	var headlines []domain.Headline
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		link := anchorHref(sel)
		if h, ok := buildHeadline(cfg, sel.Text(), link, minTitleLen); ok {
			headlines = append(headlines, h)
		}
	})

	headlines = dedupeHeadlines(headlines)
	if len(headlines) == 0 {
		return nil, fmt.Errorf("%s selector %q matched no headlines", cfg.ID, selector)
	}

	return headlines, nil
}

// anchorHref finds the link for a selected node: the node itself when it is an
// anchor, otherwise the nearest anchor above or below it.
func anchorHref(sel *goquery.Selection) string {
	if href, ok := sel.Attr("href"); ok {
		return href
	}
	if href, ok := sel.Find("a").First().Attr("href"); ok {
		return href
	}
	href, _ := sel.Closest("a").Attr("href")
	return href
}
