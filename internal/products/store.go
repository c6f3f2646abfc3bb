package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
)

// ErrNotFound indicates the requested product id is absent from the table.
var ErrNotFound = errors.New("product not found")

// DecodeError wraps a stored item that did not unmarshal into the Product
// shape. Surfacing it separately keeps a corrupt record distinguishable from
// a missing one.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode product record: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	newID     func() string
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		newID:     uuid.NewString,
	}
}

// GetAll scans the whole table.
func (s *Store) GetAll(ctx context.Context) ([]Product, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}

	list := make([]Product, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return list, nil
}

// GetByID fetches a product by id. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &p, nil
}

// GetByIDs batch-fetches products. Delivery is best-effort: ids missing from
// the table are silently absent from the result, so callers must compare
// counts to detect partial resolution. Duplicate ids are collapsed before
// the call because BatchGetItem rejects repeated keys.
func (s *Store) GetByIDs(ctx context.Context, productIDs []string) ([]Product, error) {
	if len(productIDs) == 0 {
		return []Product{}, nil
	}

	seen := make(map[string]struct{}, len(productIDs))
	keys := make([]map[string]types.AttributeValue, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		})
	}

	out, err := s.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{
		RequestItems: map[string]types.KeysAndAttributes{
			s.tableName: {Keys: keys},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch get products: %w", err)
	}

	list := make([]Product, 0, len(keys))
	if err := attributevalue.UnmarshalListOfMaps(out.Responses[s.tableName], &list); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return list, nil
}

// Create persists the product under a fresh id, overwriting any
// caller-supplied id.
func (s *Store) Create(ctx context.Context, product Product) (*Product, error) {
	product.ID = s.newID()

	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return nil, fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put product: %w", err)
	}
	return &product, nil
}

// Update rewrites the mutable attributes of an existing product. The write
// is conditional on attribute_exists(id): no record means no upsert, just
// ErrNotFound. Returns the full post-update record.
func (s *Store) Update(ctx context.Context, productID string, product Product) (*Product, error) {
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
		ConditionExpression: awsString("attribute_exists(id)"),
		UpdateExpression:    awsString("SET productName = :n, code = :c, price = :p, model = :m, productUrl = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberS{Value: product.ProductName},
			":c": &types.AttributeValueMemberS{Value: product.Code},
			":p": &types.AttributeValueMemberN{Value: strconv.FormatFloat(product.Price, 'f', -1, 64)},
			":m": &types.AttributeValueMemberS{Value: product.Model},
			":u": &types.AttributeValueMemberS{Value: product.ProductURL},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	var updated Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &updated, nil
}

// Delete removes the product and returns the pre-delete snapshot, or
// ErrNotFound if there was nothing to delete.
func (s *Store) Delete(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrNotFound
	}

	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &p, nil
}

func awsString(s string) *string { return &s }
