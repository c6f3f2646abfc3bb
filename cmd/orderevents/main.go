package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
	"github.com/andersonlima/go-ecommerce-events/internal/events"
	"github.com/andersonlima/go-ecommerce-events/pkg/logger"
)

func main() {
	log := logger.New()
	defer log.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatal("failed to init aws clients", zap.Error(err))
	}

	store := events.NewLogStore(clients.DynamoDB, os.Getenv("EVENTS_TABLE"))
	metrics := aws.NewMetricsPublisher(clients.CloudWatch, "EcommerceEvents")
	relay := events.NewRelay(store, metrics, log)
	consumer := NewConsumer(relay, log)

	// If RUN_LOCAL=true, poll the queue directly instead of waiting for the Lambda runtime.
	if os.Getenv("RUN_LOCAL") == "true" {
		queueURL := os.Getenv("ORDER_EVENTS_QUEUE_URL")
		if queueURL == "" {
			log.Fatal("ORDER_EVENTS_QUEUE_URL is required in local mode")
		}
		if err := pollQueue(context.Background(), clients.SQS, queueURL, consumer, log); err != nil {
			log.Fatal("local poller error", zap.Error(err))
		}
		return
	}

	lambda.Start(consumer.Handle)
}

// pollQueue drains the order events queue in a loop, handing each message to
// the consumer and deleting it on success. Failed messages stay on the queue
// for redelivery after the visibility timeout.
func pollQueue(ctx context.Context, client aws.SQSAPI, queueURL string, consumer *Consumer, log *zap.Logger) error {
	for {
		out, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &queueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			return err
		}

		for _, msg := range out.Messages {
			env, err := unwrapRecord(sdkaws.ToString(msg.Body))
			if err != nil {
				log.Error("bad queue message", zap.Error(err))
				continue
			}
			if err := consumer.relay.HandleEnvelope(ctx, env); err != nil {
				log.Error("relay error", zap.Error(err))
				continue
			}
			if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      &queueURL,
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				log.Warn("delete message failed", zap.Error(err))
			}
		}
	}
}
