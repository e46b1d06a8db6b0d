package domain

// Domain contains core models shared across packages.

// Headline is a single extracted (title, link) pair from a news source.
type Headline struct {
	ID     string
	Title  string
	Link   string
	Source string
}
