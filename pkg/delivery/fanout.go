package delivery

import (
	"context"
	"errors"
	"fmt"
)

// Fanout dispatches a digest event to all configured deliverers.
type Fanout struct {
	deliverers []Deliverer
}

// NewFanout builds a dispatcher that fans the digest out across deliverers.
func NewFanout(deliverers []Deliverer) *Fanout {
	cp := make([]Deliverer, 0, len(deliverers))
	for _, d := range deliverers {
		if d == nil {
			continue
		}
		cp = append(cp, d)
	}
	return &Fanout{deliverers: cp}
}

// Deliver forwards the event to every registered deliverer.
// It returns the number of deliverers that successfully handled the event.
func (f *Fanout) Deliver(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.deliverers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, d := range f.deliverers {
		if err := d.Deliver(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s deliverer[%s]: %w", d.Type(), d.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Size returns the number of active deliverers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.deliverers)
}
