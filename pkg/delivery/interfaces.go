package delivery

import "context"

// Deliverer sends a digest event to a downstream sink (SMTP, webhook, queue).
type Deliverer interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, evt Event) error
}
