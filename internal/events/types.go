package events

import (
	"encoding/json"

	"github.com/andersonlima/go-ecommerce-events/internal/orders"
)

// EventType identifies the domain mutation an envelope carries.
type EventType string

// Product lifecycle event types, delivered by direct function invoke.
const (
	ProductCreated EventType = "PRODUCT_CREATED"
	ProductUpdated EventType = "PRODUCT_UPDATED"
	ProductDeleted EventType = "PRODUCT_DELETED"
)

// Order lifecycle event types, delivered through the fanout topic.
const (
	OrderCreated EventType = "ORDER_CREATED"
	OrderDeleted EventType = "ORDER_DELETED"
)

// Envelope is the only shape that crosses the delivery channel. Data holds
// the serialized domain event, so payload schemas can evolve without
// touching the transport.
type Envelope struct {
	EventType EventType       `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// ProductEvent describes a product mutation.
type ProductEvent struct {
	RequestID    string    `json:"requestId"`
	EventType    EventType `json:"eventType"`
	ProductID    string    `json:"productId"`
	ProductCode  string    `json:"productCode"`
	ProductPrice float64   `json:"productPrice"`
	Email        string    `json:"email"`
}

// OrderEvent describes an order mutation.
type OrderEvent struct {
	ProductCodes []string        `json:"productCodes"`
	Email        string          `json:"email"`
	OrderID      string          `json:"orderId"`
	Billing      orders.Billing  `json:"billing"`
	Shipping     orders.Shipping `json:"shipping"`
	RequestID    string          `json:"requestId"`
}

// EntryInfo carries the event-specific detail of a log entry. Product events
// fill productId/price, order events fill orderId/productCodes.
type EntryInfo struct {
	ProductID    string   `dynamodbav:"productId,omitempty" json:"productId,omitempty"`
	Price        float64  `dynamodbav:"price,omitempty" json:"price,omitempty"`
	OrderID      string   `dynamodbav:"orderId,omitempty" json:"orderId,omitempty"`
	ProductCodes []string `dynamodbav:"productCodes,omitempty" json:"productCodes,omitempty"`
}

// EventLogEntry is the record persisted in the events table. The partition
// key groups entries by subject ("#product_<code>" or "#order_<email>") and
// the sort key distinguishes them by type and millisecond timestamp, so
// duplicate deliveries land as adjacent entries instead of overwrites.
// TTL is enforced by the table itself; the log is a short-lived audit trail.
type EventLogEntry struct {
	PK        string    `dynamodbav:"pk"`
	SK        string    `dynamodbav:"sk"` // "<eventType>#<timestamp>"
	Email     string    `dynamodbav:"email"`
	CreatedAt int64     `dynamodbav:"createdAt"` // epoch millis
	RequestID string    `dynamodbav:"requestId"`
	EventType EventType `dynamodbav:"eventType"`
	Info      EntryInfo `dynamodbav:"info"`
	TTL       int64     `dynamodbav:"ttl"` // epoch seconds
}
