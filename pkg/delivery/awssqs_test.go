package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSDelivererDeliverSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	deliverer := &sqsDeliverer{
		id:       "digest-queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	if err := deliverer.Deliver(context.Background(), testEvent()); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["digest_date"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "2026-08-23" {
		t.Fatalf("digest_date attribute missing or wrong: %#v", attr)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"headline_count":5`) {
		t.Fatalf("MessageBody missing counts: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSDelivererDeliverError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	deliverer := &sqsDeliverer{
		id:       "digest-queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	if err := deliverer.Deliver(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Deliver")
	}
}
