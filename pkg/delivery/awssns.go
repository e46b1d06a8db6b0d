package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsClient defines the minimal subset of the SNS client used by snsDeliverer.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsDeliverer implements the Deliverer interface for AWS SNS.
type snsDeliverer struct {
	id       string
	typ      string
	topicARN string
	client   snsClient
	log      Logger
}

// newSNSDeliverer creates a new SNS deliverer with the given configuration.
func newSNSDeliverer(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("deliverer %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.SNS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &snsDeliverer{
		id:       cfg.ID,
		typ:      TypeSNS,
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(env.Log),
	}, nil
}

func (s *snsDeliverer) ID() string   { return s.id }
func (s *snsDeliverer) Type() string { return s.typ }

// Deliver publishes the digest event to the configured SNS topic.
func (s *snsDeliverer) Deliver(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"digest_date": {
				DataType:    aws.String("String"),
				StringValue: aws.String(evt.DigestDate()),
			},
		},
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		s.log.ErrorObj("sns deliverer publish failed", "deliverer_sns_error", map[string]any{
			"deliverer_id": s.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish message to sns: %w", err)
	}
	s.log.DebugObj("sns deliverer sent digest", "deliverer_sns_delivery", map[string]any{
		"deliverer_id": s.id,
	})
	return nil
}
