package sources

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
	"github.com/anthonayokh/Morning-Brew-Digest/pkg/httpclient"
)

const maxHTMLBodyBytes = 1 << 21 // 2 MiB

func hashLink(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchPage downloads the source page, enforcing a 2xx status and a body size cap.
func fetchPage(ctx context.Context, client httpclient.Client, pageURL, sourceID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, pageURL, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page: %w", sourceID, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s page returned status %d body: %s", sourceID, resp.StatusCode(), responseSnippet(body))
	}

	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return body, nil
}

// resolveLink makes href absolute against the source page URL.
func resolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// cleanTitle collapses whitespace runs inside the extracted text.
func cleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// buildHeadline assembles a headline for the source, or false when the
// candidate is noise (missing link or a title shorter than minTitleLen).
func buildHeadline(cfg Source, title, link string, minTitleLen int) (domain.Headline, bool) {
	title = cleanTitle(title)
	link = resolveLink(cfg.URL, link)
	if link == "" || len(title) < minTitleLen {
		return domain.Headline{}, false
	}

	return domain.Headline{
		ID:     hashLink(link),
		Title:  title,
		Link:   link,
		Source: cfg.ID,
	}, true
}

// dedupeHeadlines removes repeated links preserving first-seen order.
func dedupeHeadlines(headlines []domain.Headline) []domain.Headline {
	if len(headlines) < 2 {
		return headlines
	}

	seen := make(map[string]struct{}, len(headlines))
	out := headlines[:0]
	for _, h := range headlines {
		if _, dup := seen[h.ID]; dup {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, h)
	}
	return out
}
