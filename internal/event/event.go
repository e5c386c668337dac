package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderPlaced           = "OrderPlaced"
	TypeOrderCreated          = "OrderCreated"
	TypeOrderStatusChanged    = "OrderStatusChanged"
	TypeShippingStatusChanged = "ShippingStatusChanged"
	TypeStockAllocated        = "StockAllocated"
	TypeLowStockDetected      = "LowStockDetected"
)

// Envelope is the wire shape of every event on the bus.
type Envelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEnvelope(eventType string, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Publisher emits domain events after the originating transaction commits.
type Publisher interface {
	Publish(ctx context.Context, key string, eventType string, payload interface{}) error
}

// Producer is the raw message sink, implemented by broker.KafkaProducer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type producerPublisher struct {
	producer Producer
}

func NewPublisher(p Producer) Publisher {
	return &producerPublisher{producer: p}
}

func (p *producerPublisher) Publish(ctx context.Context, key string, eventType string, payload interface{}) error {
	env, err := NewEnvelope(eventType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, key, data)
}

type nopPublisher struct{}

// NopPublisher drops events. Used when the broker is disabled.
func NopPublisher() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }

type StockAllocatedPayload struct {
	Token     string  `json:"token"`
	ProductID string  `json:"product_id"`
	OrderID   *string `json:"order_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

type LowStockPayload struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Available    int    `json:"available"`
	MinimumStock int    `json:"minimum_stock"`
}

type OrderPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OrderType   string `json:"order_type"`
	Status      string `json:"status"`
	Shipping    string `json:"shipping_status"`
}
