package digest

import (
	"errors"
	"time"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/domain"
)

// ErrEmptyDigest signals that no source contributed any headline. Callers
// decide whether that suppresses delivery or turns into a "no news" mail.
var ErrEmptyDigest = errors.New("digest contains no headlines")

// Section groups the headlines extracted from one source, in source order.
type Section struct {
	SourceID   string
	SourceName string
	SourceURL  string
	Headlines  []domain.Headline
}

// Digest is the full daily message aggregating all sources' headlines.
// Section order follows the sources file, so rendering is deterministic.
type Digest struct {
	GeneratedAt time.Time
	Sections    []Section
}

// NonEmptySections returns the sections that contributed at least one headline.
func (d Digest) NonEmptySections() []Section {
	out := make([]Section, 0, len(d.Sections))
	for _, sec := range d.Sections {
		if len(sec.Headlines) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// HeadlineCount returns the total number of headlines across all sections.
func (d Digest) HeadlineCount() int {
	n := 0
	for _, sec := range d.Sections {
		n += len(sec.Headlines)
	}
	return n
}

// Headlines returns every headline in the digest in section order.
func (d Digest) Headlines() []domain.Headline {
	out := make([]domain.Headline, 0, d.HeadlineCount())
	for _, sec := range d.Sections {
		out = append(out, sec.Headlines...)
	}
	return out
}
