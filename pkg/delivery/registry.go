package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MailAccount holds the credentials loaded for one run. They are passed
// explicitly into builders and never kept in package state.
type MailAccount struct {
	Sender    string
	Password  string
	Recipient string
}

// SMTPDefaults carries the app-level relay settings applied when a deliverer
// entry does not override them.
type SMTPDefaults struct {
	Host string
	Port int
}

// BuildEnv bundles the run-scoped dependencies deliverer builders need.
type BuildEnv struct {
	Mail MailAccount
	SMTP SMTPDefaults
	Log  Logger
}

// Builder creates a Deliverer from a config entry.
type Builder func(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error)

// Registry maps deliverer types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	DelivererFor(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a deliverer type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// DelivererFor returns the deliverer built for the provided config.
func (r *registry) DelivererFor(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("deliverer %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no deliverer registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, env)
}

// DefaultRegistry wires up known deliverers.
func DefaultRegistry() Registry {
	builders := map[string]Builder{
		TypeSMTP:   newSMTPDeliverer,
		TypeHTTP:   newHTTPDeliverer,
		TypeSQS:    newSQSDeliverer,
		TypeSNS:    newSNSDeliverer,
		TypePubSub: newPubSubDeliverer,
	}
	return NewRegistry(builders)
}

// BuildAll instantiates deliverers for configs using the registry.
func BuildAll(ctx context.Context, reg Registry, cfgs []DelivererConfig, env BuildEnv) ([]Deliverer, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	env.Log = ensureLogger(env.Log)

	var deliverers []Deliverer
	for _, cfg := range cfgs {
		d, err := reg.DelivererFor(ctx, cfg, env)
		if err != nil {
			return nil, err
		}
		deliverers = append(deliverers, d)
	}
	return deliverers, nil
}
