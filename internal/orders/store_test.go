package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a simple in-memory DynamoDB for the composite pk/sk scheme.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue // "pk|sk" -> item
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func compositeKey(attrs map[string]types.AttributeValue) (string, error) {
	pk, ok := attrs["pk"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("no pk attribute")
	}
	sk, ok := attrs["sk"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("no sk attribute")
	}
	return pk.Value + "|" + sk.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := compositeKey(params.Item)
	if err != nil {
		return nil, err
	}
	m.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := compositeKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := compositeKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[k]
	if !ok {
		return &dyn.DeleteItemOutput{}, nil
	}
	delete(m.items, k)
	return &dyn.DeleteItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := &dyn.ScanOutput{}
	for _, item := range m.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want, ok := params.ExpressionAttributeValues[":email"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :email value")
	}
	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if pk, ok := item["pk"].(*types.AttributeValueMemberS); ok && pk.Value == want.Value {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errors.New("not supported")
}

func (m *mockDynamo) BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	return nil, errors.New("not supported")
}

func testOrder(email string) Order {
	return Order{
		PK: email,
		Shipping: Shipping{
			Type:    ShippingEconomic,
			Carrier: CarrierCorreios,
		},
		Billing: Billing{
			Payment:    PaymentCash,
			TotalPrice: 15.5,
		},
		Products: []OrderProduct{
			{Code: "A1", Price: 10},
			{Code: "B1", Price: 5.5},
		},
	}
}

func TestCreate_AssignsIDAndTimestamp(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return now }
	store.newID = func() string { return "order-1" }

	in := testOrder("a@b.com")
	in.SK = "caller-supplied"
	in.CreatedAt = 42

	created, err := store.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.SK != "order-1" {
		t.Fatalf("caller-supplied sk not overwritten: %q", created.SK)
	}
	if created.CreatedAt != now.UnixMilli() {
		t.Fatalf("createdAt = %d, want %d", created.CreatedAt, now.UnixMilli())
	}

	got, err := store.GetByEmailAndID(context.Background(), "a@b.com", "order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PK != created.PK || got.SK != created.SK || got.CreatedAt != created.CreatedAt {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", got, created)
	}
	if len(got.Products) != 2 || got.Products[0].Code != "A1" {
		t.Fatalf("product snapshots not persisted: %+v", got.Products)
	}
}

func TestGetByEmailAndID_NotFound(t *testing.T) {
	store := NewStore(newMockDynamo(), "orders")

	_, err := store.GetByEmailAndID(context.Background(), "a@b.com", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByEmail_FiltersOwner(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	if _, err := store.Create(context.Background(), testOrder("a@b.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(context.Background(), testOrder("a@b.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(context.Background(), testOrder("other@b.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := store.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list))
	}
	for _, o := range list {
		if o.PK != "a@b.com" {
			t.Fatalf("got order belonging to %q", o.PK)
		}
	}

	empty, err := store.GetByEmail(context.Background(), "nobody@b.com")
	if err != nil {
		t.Fatalf("get by email (none): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no orders, got %d", len(empty))
	}
}

func TestDelete_ReturnsSnapshotExactlyOnce(t *testing.T) {
	mock := newMockDynamo()
	store := NewStore(mock, "orders")

	created, err := store.Create(context.Background(), testOrder("a@b.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := store.Delete(context.Background(), "a@b.com", created.SK)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.SK != created.SK || deleted.Billing.TotalPrice != created.Billing.TotalPrice {
		t.Fatalf("snapshot mismatch: got %+v want %+v", deleted, created)
	}

	_, err = store.Delete(context.Background(), "a@b.com", created.SK)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestToResponse_RenamesKeys(t *testing.T) {
	o := testOrder("a@b.com")
	o.SK = "order-9"
	o.CreatedAt = 1700000000000

	resp := ToResponse(o)
	if resp.Email != "a@b.com" || resp.ID != "order-9" {
		t.Fatalf("pk/sk not renamed: %+v", resp)
	}
	if resp.CreatedAt != o.CreatedAt {
		t.Fatalf("createdAt lost in translation")
	}
	if len(resp.Products) != len(o.Products) {
		t.Fatalf("products lost in translation")
	}
}
