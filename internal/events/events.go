// Package events carries admission outcomes to subscribers and the durable stream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bid-admission/internal/metrics"
	model "bid-admission/internal/models"
	"bid-admission/utils"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"
)

// Event types
const (
	BidPlaced     = "bid_update"
	ItemSold      = "item_sold"
	BidChallenged = "bid_challenged"
	FraudAlerted  = "fraud_alert"
)

// Event is one domain event. Amount is the new price for bids and purchases.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	ItemID    string          `json:"item_id"`
	UserID    string          `json:"user_id"`
	BidID     string          `json:"bid_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	BidCount  int             `json:"bid_count,omitempty"`
	Severity  model.Severity  `json:"severity,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// New stamps an event with a sortable id.
func New(eventType, itemID, userID string, amount decimal.Decimal, at time.Time) Event {
	return Event{
		ID:        utils.NewSortableID(),
		Type:      eventType,
		ItemID:    itemID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: at,
	}
}

//go:generate mockgen -destination=mock_publisher.go -package=events bid-admission/internal/events Publisher

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Scheduler runs tasks on a worker pool; *goroutines.Pool satisfies it.
type Scheduler interface {
	Schedule(task goroutines.TaskFunc) error
}

var _ Scheduler = (*goroutines.Pool)(nil)

// Async hands events to a worker pool so publishing never holds up admission.
// Delivery is best effort: failures are logged and counted.
type Async struct {
	next    Publisher
	pool    Scheduler
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewAsync(next Publisher, pool Scheduler, timeout time.Duration, m *metrics.Metrics) *Async {
	return &Async{next: next, pool: pool, timeout: timeout, metrics: m}
}

// Publish returns once the event is queued; ctx is not used by the delivery itself.
func (a *Async) Publish(_ context.Context, e Event) error {
	err := a.pool.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		err := a.next.Publish(ctx, e)
		a.metrics.Event(e.Type, err)
		if err != nil {
			utils.Error("Failed to publish event", map[string]any{
				"eventType": e.Type, "itemID": e.ItemID, "error": err.Error(),
			})
		}
	})
	if err != nil {
		a.metrics.Event(e.Type, err)
		return fmt.Errorf("events: schedule: %w", err)
	}
	return nil
}

// StreamPublisher writes events to a JetStream stream on bid.events.<item>
type StreamPublisher struct {
	js jetstream.JetStream
}

// Subject returns the stream subject for an item.
func Subject(itemID string) string {
	return "bid.events." + itemID
}

// NewStreamPublisher creates or updates the stream and returns a publisher for it.
func NewStreamPublisher(ctx context.Context, nc *nats.Conn, stream string) (*StreamPublisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("events: jetstream: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      stream,
		Subjects:  []string{"bid.events.*"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Replicas:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("events: create stream %s: %w", stream, err)
	}
	utils.Info("Event stream ready", map[string]any{"stream": stream})
	return &StreamPublisher{js: js}, nil
}

// Publish waits for the server acknowledgement. The event id is the dedup key.
func (s *StreamPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}
	ack, err := s.js.Publish(ctx, Subject(e.ItemID), data, jetstream.WithMsgID(e.ID))
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", e.Type, err)
	}
	utils.Debug("Event published", map[string]any{"eventType": e.Type, "itemID": e.ItemID, "seq": ack.Sequence})
	return nil
}

// Discard drops every event
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
