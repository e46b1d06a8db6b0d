package sources

import (
	"context"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/httpclient"
)

// Scraper retrieves a source page and extracts its headlines. Concrete
// implementations live in site-specific files (e.g., bbc.go).
type Scraper interface {
	ID() string
	Scrape(ctx context.Context, cfg Source) ([]domain.Headline, error)
}

// ScraperRegistry resolves the scraper implementation for a given source config.
type ScraperRegistry interface {
	ScraperFor(cfg Source) (Scraper, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
