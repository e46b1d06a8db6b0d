package sources

import (
	"context"
	"testing"
)

func TestCSSScraperUsesConfiguredSelector(t *testing.T) {
	const page = `<html><body>
<span class="titleline"><a href="https://example.com/item-1">First configured headline</a></span>
<span class="titleline"><a href="https://example.com/item-2">Second configured headline</a></span>
<span class="other"><a href="https://example.com/noise">Should not match this one</a></span>
</body></html>`

	scraper := NewCSSScraper(&mockHTTPClient{t: t, body: page})
	headlines, err := scraper.Scrape(context.Background(), Source{
		ID:   "hn",
		Type: SourceTypeCSS,
		URL:  "https://news.ycombinator.com/",
		Config: map[string]any{
			ConfigSelectorKey: "span.titleline > a",
		},
	})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(headlines))
	}
	if headlines[1].Link != "https://example.com/item-2" {
		t.Errorf("unexpected link: %s", headlines[1].Link)
	}
}

func TestCSSScraperRequiresSelector(t *testing.T) {
	scraper := NewCSSScraper(&mockHTTPClient{t: t, body: "<html></html>"})
	_, err := scraper.Scrape(context.Background(), Source{
		ID:   "hn",
		Type: SourceTypeCSS,
		URL:  "https://news.ycombinator.com/",
	})
	if err == nil {
		t.Fatalf("expected error when config.selector is missing")
	}
}

func TestCSSScraperHonorsMinTitleLen(t *testing.T) {
	const page = `<html><body>
<a class="headline" href="https://example.com/a">ok</a>
<a class="headline" href="https://example.com/b">long enough to keep</a>
</body></html>`

	scraper := NewCSSScraper(&mockHTTPClient{t: t, body: page})
	headlines, err := scraper.Scrape(context.Background(), Source{
		ID:   "site",
		Type: SourceTypeCSS,
		URL:  "https://example.com/",
		Config: map[string]any{
			ConfigSelectorKey:    "a.headline",
			ConfigMinTitleLenKey: 5,
		},
	})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(headlines) != 1 {
		t.Fatalf("expected short title to be filtered, got %d headlines", len(headlines))
	}
}

func TestRSSScraperParsesFeedItems(t *testing.T) {
	const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com/</link>
    <item>
      <title>Feed headline one</title>
      <link>https://example.com/one</link>
    </item>
    <item>
      <title>Feed headline two</title>
      <link>https://example.com/two</link>
    </item>
  </channel>
</rss>`

	scraper := NewRSSScraper(&mockHTTPClient{t: t, body: feed})
	headlines, err := scraper.Scrape(context.Background(), Source{
		ID:   "example-rss",
		Type: SourceTypeRSS,
		URL:  "https://example.com/rss.xml",
	})
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(headlines))
	}
	if headlines[0].Title != "Feed headline one" {
		t.Errorf("unexpected title: %s", headlines[0].Title)
	}
	if headlines[0].Source != "example-rss" {
		t.Errorf("headline should carry the source id, got %s", headlines[0].Source)
	}
}

func TestRSSScraperRejectsBrokenFeed(t *testing.T) {
	scraper := NewRSSScraper(&mockHTTPClient{t: t, body: "<not-a-feed/>"})
	_, err := scraper.Scrape(context.Background(), Source{
		ID:   "broken",
		Type: SourceTypeRSS,
		URL:  "https://example.com/rss.xml",
	})
	if err == nil {
		t.Fatalf("expected error for unparsable feed")
	}
}
