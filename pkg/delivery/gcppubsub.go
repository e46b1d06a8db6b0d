package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubDeliverer implements the Deliverer interface for GCP Pub/Sub.
type pubsubDeliverer struct {
	id     string
	typ    string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    Logger
}

// newPubSubDeliverer creates a Pub/Sub deliverer, optionally authenticating
// with a service account credentials file.
func newPubSubDeliverer(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("deliverer %q missing pubsub configuration", cfg.ID)
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &pubsubDeliverer{
		id:     cfg.ID,
		typ:    TypePubSub,
		client: client,
		topic:  client.Topic(cfg.PubSub.Topic),
		log:    ensureLogger(env.Log),
	}, nil
}

func (p *pubsubDeliverer) ID() string   { return p.id }
func (p *pubsubDeliverer) Type() string { return p.typ }

// Deliver publishes the digest event to the configured topic and waits for
// the server ack.
func (p *pubsubDeliverer) Deliver(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"digest_date": evt.DigestDate(),
		},
	})

	if _, err := result.Get(ctx); err != nil {
		p.log.ErrorObj("pubsub deliverer publish failed", "deliverer_pubsub_error", map[string]any{
			"deliverer_id": p.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish message to pubsub: %w", err)
	}
	p.log.DebugObj("pubsub deliverer sent digest", "deliverer_pubsub_delivery", map[string]any{
		"deliverer_id": p.id,
	})
	return nil
}
