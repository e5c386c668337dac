package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/event"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const systemUser = "system"

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener turns storefront OrderPlaced events into outbound orders.
type OrderListener struct {
	consumer MessageReader
	uc       order.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer MessageReader, uc order.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting Order Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Order Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderPlacedEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Payload   OrderPlacedPayload `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

type OrderPlacedPayload struct {
	CustomerID      string             `json:"customer_id"`
	ShippingAddress *string            `json:"shipping_address"`
	Items           []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// processMessage never returns an error: bad or rejected events are logged
// and skipped so one poison message cannot stall the partition.
func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var evt OrderPlacedEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if evt.EventType != event.TypeOrderPlaced {
		return
	}
	if evt.EventID == "" {
		l.logger.Warn("Skipping OrderPlaced event without event_id")
		return
	}

	l.logger.Info("Processing OrderPlaced event",
		zap.String("event_id", evt.EventID),
		zap.String("customer_id", evt.Payload.CustomerID),
	)

	items := make([]dto.OrderItemInput, 0, len(evt.Payload.Items))
	for _, it := range evt.Payload.Items {
		items = append(items, dto.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	customerID, token := evt.Payload.CustomerID, evt.EventID
	res, err := l.uc.CreateOrder(ctx, &dto.CreateOrderInput{
		OrderType:       string(model.OrderTypeOutbound),
		CustomerID:      &customerID,
		ShippingAddress: evt.Payload.ShippingAddress,
		Items:           items,
		RequestToken:    &token,
		UserID:          systemUser,
	})
	if err != nil {
		l.logger.Error("Failed to create order from event",
			zap.String("event_id", evt.EventID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Order created from event",
		zap.String("event_id", evt.EventID),
		zap.String("order_id", res.Order.ID),
		zap.String("order_number", res.Order.OrderNumber),
		zap.Bool("replayed", res.Replayed),
	)
}
