package digest

import (
	"fmt"
	"strings"
	"time"
)

const (
	bannerRule  = "=================================================="
	sectionRule = "----------------------------------------"
)

// Subject builds the mail subject for a digest generated at t.
func Subject(t time.Time) string {
	return "Morning Brew Digest - " + t.Format("2006-01-02")
}

// Render produces the plain-text digest body. Sources with zero headlines are
// left out entirely. Returns ErrEmptyDigest when nothing was collected at all.
func Render(d Digest) (string, error) {
	sections := d.NonEmptySections()
	if len(sections) == 0 {
		return "", ErrEmptyDigest
	}

	var b strings.Builder
	writeBanner(&b, d.GeneratedAt)

	for _, sec := range sections {
		fmt.Fprintf(&b, "[ %s ]\n", strings.ToUpper(sec.SourceName))
		fmt.Fprintf(&b, "%s\n\n", sec.SourceURL)

		for i, h := range sec.Headlines {
			fmt.Fprintf(&b, "%d. %s\n", i+1, h.Title)
			fmt.Fprintf(&b, "   %s\n", h.Link)
		}

		b.WriteString("\n")
		b.WriteString(sectionRule)
		b.WriteString("\n\n")
	}

	b.WriteString(bannerRule)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d sources, %d headlines\n", len(sections), d.HeadlineCount())
	b.WriteString(bannerRule)
	b.WriteString("\n")

	return b.String(), nil
}

// RenderEmpty produces the body used when send_empty_digest is on and no
// source yielded anything.
func RenderEmpty(t time.Time) string {
	var b strings.Builder
	writeBanner(&b, t)
	b.WriteString("No news today.\n")
	return b.String()
}

func writeBanner(b *strings.Builder, t time.Time) {
	b.WriteString(bannerRule)
	b.WriteString("\n")
	b.WriteString("MORNING BREW DIGEST\n")
	fmt.Fprintf(b, "%s\n", t.Format("Monday, January 2, 2006"))
	fmt.Fprintf(b, "Generated at %s\n", t.Format("15:04 MST"))
	b.WriteString(bannerRule)
	b.WriteString("\n\n")
}
