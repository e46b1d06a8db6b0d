package sources

import (
	"fmt"
	"strings"
	"sync"

	"github.com/anthonayokh/Morning-Brew-Digest/pkg/httpclient"
)

// scraperRegistry implements ScraperRegistry.
type scraperRegistry struct {
	scrapersByID   map[string]Scraper
	scrapersByType map[string]Scraper
	mu             sync.RWMutex
}

// NewScraperRegistry builds a registry for the provided scraper implementations keyed by source id.
func NewScraperRegistry(scrapers ...Scraper) ScraperRegistry {
	return NewTypeScraperRegistry(nil, scrapers...)
}

// NewTypeScraperRegistry builds a registry with optional type-based scrapers and site-specific scrapers.
func NewTypeScraperRegistry(typeScrapers map[string]Scraper, scrapers ...Scraper) ScraperRegistry {
	reg := &scraperRegistry{
		scrapersByID:   make(map[string]Scraper),
		scrapersByType: make(map[string]Scraper),
	}

	for _, s := range scrapers {
		reg.registerIDScraper(s)
	}
	for typ, s := range typeScrapers {
		reg.registerTypeScraper(typ, s)
	}

	return reg
}

func (r *scraperRegistry) registerIDScraper(s Scraper) {
	if s == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(s.ID()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.scrapersByID[key] = s
	r.mu.Unlock()
}

func (r *scraperRegistry) registerTypeScraper(typ string, s Scraper) {
	if s == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(typ))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.scrapersByType[key] = s
	r.mu.Unlock()
}

// ScraperFor selects the scraper for the given source based on its id or type.
func (r *scraperRegistry) ScraperFor(cfg Source) (Scraper, error) {
	if r == nil {
		return nil, fmt.Errorf("scraper registry is nil")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idKey := strings.ToLower(strings.TrimSpace(cfg.ID))
	if s, ok := r.scrapersByID[idKey]; ok {
		return s, nil
	}

	typeKey := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typeKey != "" {
		if s, ok := r.scrapersByType[typeKey]; ok {
			return s, nil
		}
	}

	return nil, fmt.Errorf("no scraper registered for source %q (type %q)", cfg.ID, cfg.Type)
}

// DefaultHTTPClient returns a tuned http.Client for source scrapers.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(httpclient.DefaultTimeout) }

// Generic source types resolvable without a site-specific scraper.
const (
	SourceTypeCSS = "css"
	SourceTypeRSS = "rss"
)

// DefaultScraperRegistry wires up the known site scrapers plus the generic
// css-selector and rss types.
func DefaultScraperRegistry(client HTTPClient) ScraperRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}

	typeScrapers := map[string]Scraper{
		SourceTypeCSS: NewCSSScraper(client),
		SourceTypeRSS: NewRSSScraper(client),
	}

	return NewTypeScraperRegistry(typeScrapers,
		NewBBCScraper(client),
		NewReutersScraper(client),
		NewTechCrunchScraper(client),
	)
}
