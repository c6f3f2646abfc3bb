package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
)

// ErrNotFound indicates the requested (email, orderId) pair is absent.
var ErrNotFound = errors.New("order not found")

// DecodeError wraps a stored item that did not unmarshal into the Order shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode order record: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	newID     func() string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		newID:     uuid.NewString,
		nowFunc:   time.Now,
	}
}

// GetAll scans the whole table.
func (s *Store) GetAll(ctx context.Context) ([]Order, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	list := make([]Order, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return list, nil
}

// GetByEmail returns every order owned by the email. Equality match on the
// partition key, not a scan.
func (s *Store) GetByEmail(ctx context.Context, email string) ([]Order, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: awsString("pk = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	list := make([]Order, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return list, nil
}

// GetByEmailAndID fetches a single order. Returns ErrNotFound if absent.
func (s *Store) GetByEmailAndID(ctx context.Context, email, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       orderKey(email, orderID),
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &o, nil
}

// Create persists the order under a fresh order id and creation timestamp,
// overwriting any caller-supplied values.
func (s *Store) Create(ctx context.Context, order Order) (*Order, error) {
	order.SK = s.newID()
	order.CreatedAt = s.nowFunc().UnixMilli()

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put order: %w", err)
	}
	return &order, nil
}

// Delete removes the order and returns the pre-delete snapshot, or
// ErrNotFound if there was nothing to delete.
func (s *Store) Delete(ctx context.Context, email, orderID string) (*Order, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:    &s.tableName,
		Key:          orderKey(email, orderID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrNotFound
	}

	var o Order
	if err := attributevalue.UnmarshalMap(out.Attributes, &o); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &o, nil
}

func orderKey(email, orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: email},
		"sk": &types.AttributeValueMemberS{Value: orderID},
	}
}

func awsString(s string) *string { return &s }
