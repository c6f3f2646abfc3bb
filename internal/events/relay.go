package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
)

// ttlWindow is how long a log entry survives before the table expires it.
const ttlWindow = 5 * time.Minute

// Relay is a stateless transform from Envelope to EventLogEntry: one entry
// per invocation, no retries, no dedupe. The delivery channel decides
// redelivery, so the same logical event may land more than once; distinct
// sort-key timestamps keep duplicates from overwriting each other.
type Relay struct {
	store   *LogStore
	metrics *aws.MetricsPublisher
	log     *zap.Logger
	nowFunc func() time.Time
}

// NewRelay creates a Relay. metrics may be nil when counters are not wanted.
func NewRelay(store *LogStore, metrics *aws.MetricsPublisher, log *zap.Logger) *Relay {
	return &Relay{
		store:   store,
		metrics: metrics,
		log:     log,
		nowFunc: time.Now,
	}
}

// HandleEnvelope deserializes the envelope payload and persists one log
// entry. Unknown event types and malformed payloads fail the invocation so
// the delivery channel can decide whether to redeliver.
func (r *Relay) HandleEnvelope(ctx context.Context, env Envelope) error {
	now := r.nowFunc().UnixMilli()

	var entry EventLogEntry
	switch env.EventType {
	case ProductCreated, ProductUpdated, ProductDeleted:
		var ev ProductEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("decode product event: %w", err)
		}
		entry = EventLogEntry{
			PK:        "#product_" + ev.ProductCode,
			Email:     ev.Email,
			RequestID: ev.RequestID,
			Info: EntryInfo{
				ProductID: ev.ProductID,
				Price:     ev.ProductPrice,
			},
		}
	case OrderCreated, OrderDeleted:
		var ev OrderEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return fmt.Errorf("decode order event: %w", err)
		}
		entry = EventLogEntry{
			PK:        "#order_" + ev.Email,
			Email:     ev.Email,
			RequestID: ev.RequestID,
			Info: EntryInfo{
				OrderID:      ev.OrderID,
				ProductCodes: ev.ProductCodes,
			},
		}
	default:
		return fmt.Errorf("unknown event type %q", env.EventType)
	}

	entry.SK = string(env.EventType) + "#" + strconv.FormatInt(now, 10)
	entry.EventType = env.EventType
	entry.CreatedAt = now
	entry.TTL = now/1000 + int64(ttlWindow.Seconds())

	if err := r.store.Append(ctx, entry); err != nil {
		return err
	}

	r.log.Info("event stored",
		zap.String("eventType", string(env.EventType)),
		zap.String("pk", entry.PK),
		zap.String("requestId", entry.RequestID),
	)

	if r.metrics != nil {
		if err := r.metrics.CountEvent(ctx, string(env.EventType)); err != nil {
			r.log.Warn("event metric not recorded", zap.Error(err))
		}
	}
	return nil
}
