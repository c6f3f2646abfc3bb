package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
	"github.com/andersonlima/go-ecommerce-events/internal/events"
	"github.com/andersonlima/go-ecommerce-events/pkg/logger"
)

// Entry point for product event envelopes. The API invokes this function
// directly (asynchronously), one envelope per invocation.
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

	// If RUN_LOCAL=true, process a single envelope from the environment for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_EVENT_BODY")
		if body == "" {
			body = `{"eventType":"PRODUCT_CREATED","data":{"requestId":"local-1","eventType":"PRODUCT_CREATED","productId":"p-1","productCode":"C1","productPrice":10.5,"email":"local@test.com"}}`
		}
		var env events.Envelope
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			log.Fatal("invalid local envelope", zap.Error(err))
		}
		if err := relay.HandleEnvelope(context.Background(), env); err != nil {
			log.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(func(ctx context.Context, env events.Envelope) error {
		return relay.HandleEnvelope(ctx, env)
	})
}
