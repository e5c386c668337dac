package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUseCase struct {
	order.UseCase
	mu     sync.Mutex
	inputs []*dto.CreateOrderInput
	err    error
}

func (r *recordingUseCase) CreateOrder(_ context.Context, in *dto.CreateOrderInput) (*dto.CreateOrderResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, in)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.CreateOrderResult{Order: &model.Order{BaseModel: model.BaseModel{ID: "o1"}}}, nil
}

func (r *recordingUseCase) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inputs)
}

// queueReader serves queued messages and then blocks until ctx is cancelled.
type queueReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	errs []error
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	q.mu.Lock()
	if len(q.errs) > 0 {
		err := q.errs[0]
		q.errs = q.errs[1:]
		q.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(q.msgs) > 0 {
		m := q.msgs[0]
		q.msgs = q.msgs[1:]
		q.mu.Unlock()
		return m, nil
	}
	q.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

const placed = `{
	"event_id": "evt-42",
	"event_type": "OrderPlaced",
	"timestamp": "2025-03-14T09:30:00Z",
	"payload": {
		"customer_id": "c1",
		"shipping_address": "Jl. Sudirman 1",
		"items": [{"product_id": "p1", "quantity": 2, "unit_price": 12.5}]
	}
}`

func TestProcessMessage_createsOutboundOrder(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewOrderListener(&queueReader{}, uc, logger.NewNop())

	l.processMessage(context.Background(), []byte(placed))

	require.Len(t, uc.inputs, 1)
	in := uc.inputs[0]
	assert.Equal(t, string(model.OrderTypeOutbound), in.OrderType)
	assert.Equal(t, "c1", *in.CustomerID)
	assert.Equal(t, "evt-42", *in.RequestToken)
	assert.Equal(t, "Jl. Sudirman 1", *in.ShippingAddress)
	assert.Equal(t, systemUser, in.UserID)
	require.Len(t, in.Items, 1)
	assert.Equal(t, 2, in.Items[0].Quantity)
	assert.True(t, in.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.5")))
}

func TestProcessMessage_skipsOtherEvents(t *testing.T) {
	uc := &recordingUseCase{}
	l := NewOrderListener(&queueReader{}, uc, logger.NewNop())

	l.processMessage(context.Background(), []byte(`{"event_id":"e1","event_type":"OrderCreated","payload":{}}`))
	l.processMessage(context.Background(), []byte(`{not json`))
	l.processMessage(context.Background(), []byte(`{"event_type":"OrderPlaced","payload":{}}`))

	assert.Empty(t, uc.inputs)
}

func TestProcessMessage_useCaseErrorIsSwallowed(t *testing.T) {
	uc := &recordingUseCase{err: errors.New("insufficient stock")}
	l := NewOrderListener(&queueReader{}, uc, logger.NewNop())

	assert.NotPanics(t, func() { l.processMessage(context.Background(), []byte(placed)) })
	assert.Len(t, uc.inputs, 1)
}

func TestStart_consumesUntilCancelled(t *testing.T) {
	uc := &recordingUseCase{}
	reader := &queueReader{
		errs: []error{errors.New("broker down")},
		msgs: []kafka.Message{{Value: []byte(placed)}, {Value: []byte(placed)}},
	}
	l := NewOrderListener(reader, uc, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return uc.calls() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
