package handlers

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	sdklambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// mockDynamo backs both the products table (keyed by id) and the orders
// table (keyed by pk|sk): table -> key -> item.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) ensureTable(tbl string) map[string]map[string]types.AttributeValue {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[tbl]
}

func keyOf(attrs map[string]types.AttributeValue) (string, error) {
	if v, ok := attrs["id"].(*types.AttributeValueMemberS); ok {
		return v.Value, nil
	}
	pk, okPK := attrs["pk"].(*types.AttributeValueMemberS)
	sk, okSK := attrs["sk"].(*types.AttributeValueMemberS)
	if okPK && okSK {
		return pk.Value + "|" + sk.Value, nil
	}
	return "", errors.New("no recognizable key attributes")
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	k, err := keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	tbl[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := tbl[k]
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" && !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		return nil, errors.New("item not found")
	}
	mapping := map[string]string{
		":n": "productName",
		":c": "code",
		":p": "price",
		":m": "model",
		":u": "productUrl",
	}
	for placeholder, attr := range mapping {
		if v, ok := params.ExpressionAttributeValues[placeholder]; ok {
			item[attr] = v
		}
	}
	tbl[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	k, err := keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := tbl[k]
	if !ok {
		return &dyn.DeleteItemOutput{}, nil
	}
	delete(tbl, k)
	return &dyn.DeleteItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	out := &dyn.ScanOutput{}
	for _, item := range tbl {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl := m.ensureTable(*params.TableName)
	want, ok := params.ExpressionAttributeValues[":email"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :email value")
	}
	out := &dyn.QueryOutput{}
	for _, item := range tbl {
		if pk, ok := item["pk"].(*types.AttributeValueMemberS); ok && pk.Value == want.Value {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for tableName, req := range params.RequestItems {
		tbl := m.ensureTable(tableName)
		seen := map[string]struct{}{}
		for _, key := range req.Keys {
			k, err := keyOf(key)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[k]; dup {
				return nil, errors.New("duplicate key in batch get")
			}
			seen[k] = struct{}{}
			if item, ok := tbl[k]; ok {
				out.Responses[tableName] = append(out.Responses[tableName], item)
			}
		}
	}
	return out, nil
}

// mockSNS records published envelopes.
type mockSNS struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *params.Message)
	id := "msg-1"
	return &sns.PublishOutput{MessageId: &id}, nil
}

// mockLambda records invoke payloads.
type mockLambda struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (m *mockLambda) Invoke(ctx context.Context, params *sdklambda.InvokeInput, optFns ...func(*sdklambda.Options)) (*sdklambda.InvokeOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, params.Payload)
	return &sdklambda.InvokeOutput{}, nil
}
