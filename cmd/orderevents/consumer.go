package main

import (
	"context"
	"encoding/json"
	"fmt"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/events"
)

// Consumer feeds topic-delivered order event envelopes into the relay. The
// function sits behind an SQS queue subscribed to the order events topic, so
// each record body is an SNS notification wrapping the envelope.
type Consumer struct {
	relay *events.Relay
	log   *zap.Logger
}

// NewConsumer creates a Consumer.
func NewConsumer(relay *events.Relay, log *zap.Logger) *Consumer {
	return &Consumer{relay: relay, log: log}
}

// Handle processes an SQS batch. The first failure fails the whole batch:
// the queue redelivers, and the relay tolerates the duplicates that causes.
func (c *Consumer) Handle(ctx context.Context, ev lambdaevents.SQSEvent) error {
	c.log.Info("received order event batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		env, err := unwrapRecord(rec.Body)
		if err != nil {
			c.log.Error("bad order event record",
				zap.String("messageId", rec.MessageId),
				zap.Error(err),
			)
			return err
		}
		if err := c.relay.HandleEnvelope(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

// unwrapRecord peels the SNS notification off a queue record body and
// decodes the envelope inside. Bodies that are already bare envelopes (raw
// message delivery) decode as-is.
func unwrapRecord(body string) (events.Envelope, error) {
	var note lambdaevents.SNSEntity
	if err := json.Unmarshal([]byte(body), &note); err == nil && note.Message != "" {
		body = note.Message
	}

	var env events.Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.EventType == "" {
		return env, fmt.Errorf("envelope missing eventType")
	}
	return env, nil
}
