package delivery

import "time"

// Event is the rendered digest payload handed to deliverers.
type Event struct {
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	GeneratedAt   time.Time `json:"generated_at"`
	SourceCount   int       `json:"source_count"`
	HeadlineCount int       `json:"headline_count"`
}

// NewEvent constructs an Event for one rendered digest.
func NewEvent(subject, body string, generatedAt time.Time, sourceCount, headlineCount int) Event {
	return Event{
		Subject:       subject,
		Body:          body,
		GeneratedAt:   generatedAt.UTC(),
		SourceCount:   sourceCount,
		HeadlineCount: headlineCount,
	}
}

// DigestDate returns the digest day used as a message attribute on queue sinks.
func (e Event) DigestDate() string {
	return e.GeneratedAt.Format("2006-01-02")
}
