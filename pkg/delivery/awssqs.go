package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// sqsClient defines the minimal subset of the SQS client used by sqsDeliverer.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsDeliverer implements the Deliverer interface for AWS SQS.
type sqsDeliverer struct {
	id       string
	typ      string
	queueURL string
	client   sqsClient
	log      Logger
}

// newSQSDeliverer creates a new SQS deliverer with the given configuration.
func newSQSDeliverer(ctx context.Context, cfg DelivererConfig, env BuildEnv) (Deliverer, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("deliverer %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.SQS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &sqsDeliverer{
		id:       cfg.ID,
		typ:      TypeSQS,
		queueURL: cfg.SQS.QueueURL,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(env.Log),
	}, nil
}

func (s *sqsDeliverer) ID() string   { return s.id }
func (s *sqsDeliverer) Type() string { return s.typ }

// Deliver sends the digest event to the configured SQS queue.
func (s *sqsDeliverer) Deliver(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"digest_date": {
				DataType:    aws.String("String"),
				StringValue: aws.String(evt.DigestDate()),
			},
		},
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		s.log.ErrorObj("sqs deliverer send failed", "deliverer_sqs_error", map[string]any{
			"deliverer_id": s.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs deliverer sent digest", "deliverer_sqs_delivery", map[string]any{
		"deliverer_id": s.id,
	})
	return nil
}
