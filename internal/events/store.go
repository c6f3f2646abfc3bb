package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
)

// LogStore appends entries to the events table. It is append-only: entries
// age out through the table's TTL attribute, never through deletes here.
type LogStore struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewLogStore creates a new LogStore.
func NewLogStore(client aws.DynamoDBAPI, tableName string) *LogStore {
	return &LogStore{
		client:    client,
		tableName: tableName,
	}
}

// Append persists one log entry.
func (s *LogStore) Append(ctx context.Context, entry EventLogEntry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal event log entry: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put event log entry: %w", err)
	}
	return nil
}
