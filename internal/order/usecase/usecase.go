package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/fekuna/omnipos-warehouse-service/internal/event"
	"github.com/fekuna/omnipos-warehouse-service/internal/fulfillment"
	invdto "github.com/fekuna/omnipos-warehouse-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/internal/order"
	"github.com/fekuna/omnipos-warehouse-service/internal/order/dto"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	orderNumberAttempts    = 5
	requestTokenConstraint = "orders_request_token_key"
)

var errRequestTokenTaken = errors.New("request token taken")

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type LocationFinder interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}

type SupplierFinder interface {
	FindByID(ctx context.Context, id string) (*model.Supplier, error)
}

// CustomerLedger is the slice of the customer repository that tracks credit.
type CustomerLedger interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	LockByID(ctx context.Context, id string) (*model.Customer, error)
	AddBalance(ctx context.Context, id string, delta decimal.Decimal) error
	SetCreditLimit(ctx context.Context, id string, limit decimal.Decimal) error
}

// Stock is the inventory surface orders drive. Calls join the caller's transaction.
type Stock interface {
	Allocate(ctx context.Context, input *invdto.AllocateInput) (*model.Allocation, error)
	ReleaseOrderAllocations(ctx context.Context, orderID, userID string) error
	ReceiveStock(ctx context.Context, input *invdto.ReceiveStockInput) (*model.Inventory, error)
	NotifyLowStock(ctx context.Context, productIDs ...string) error
}

type CapacityChecker interface {
	CheckCapacity(ctx context.Context, assignments []fulfillment.Assignment) error
}

type orderUseCase struct {
	repo      order.Repository
	products  ProductFinder
	locations LocationFinder
	suppliers SupplierFinder
	customers CustomerLedger
	stock     Stock
	capacity  CapacityChecker
	tx        postgres.Transactor
	publisher event.Publisher
	logger    logger.ZapLogger

	now            func() time.Time
	newOrderNumber func(at time.Time) string
	runAsync       func(fn func())
}

func NewOrderUseCase(
	repo order.Repository,
	products ProductFinder,
	locations LocationFinder,
	suppliers SupplierFinder,
	customers CustomerLedger,
	stock Stock,
	capacity CapacityChecker,
	tx postgres.Transactor,
	publisher event.Publisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:           repo,
		products:       products,
		locations:      locations,
		suppliers:      suppliers,
		customers:      customers,
		stock:          stock,
		capacity:       capacity,
		tx:             tx,
		publisher:      publisher,
		logger:         log,
		now:            time.Now,
		newOrderNumber: fulfillment.NewOrderNumber,
		runAsync:       func(fn func()) { go fn() },
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*dto.CreateOrderResult, error) {
	orderType := model.OrderType(input.OrderType)
	if err := validateCreate(orderType, input); err != nil {
		return nil, err
	}

	token := trimmed(input.RequestToken)
	if token != nil {
		res, err := uc.replay(ctx, *token, orderType, input)
		if err != nil || res != nil {
			return res, err
		}
	}

	if err := uc.checkReferences(ctx, orderType, input); err != nil {
		return nil, err
	}

	now := uc.now()
	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderType:       orderType,
		Status:          model.OrderStatusPending,
		ShippingStatus:  model.ShippingStatusPending,
		SupplierID:      trimmed(input.SupplierID),
		CustomerID:      trimmed(input.CustomerID),
		ShippingAddress: trimmed(input.ShippingAddress),
		ShippingCarrier: trimmed(input.ShippingCarrier),
		Notes:           trimmed(input.Notes),
		RequestToken:    token,
		CreatedBy:       auth.ActorID(input.UserID),
	}
	o.Items, o.TotalAmount = buildItems(o.ID, input.Items, now)

	var (
		warning     *fulfillment.CreditAssessment
		allocations []*model.Allocation
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if orderType == model.OrderTypeOutbound {
			a, err := uc.chargeCredit(ctx, *o.CustomerID, o.TotalAmount, input.AutoRaiseCreditLimit)
			if err != nil {
				return err
			}
			if a.Status != fulfillment.CreditOK {
				warning = a
			}
		}

		number, err := uc.nextOrderNumber(ctx, now)
		if err != nil {
			return err
		}
		o.OrderNumber = number

		if err := uc.repo.Create(ctx, o); err != nil {
			if postgres.IsUniqueViolation(err) {
				if token != nil && postgres.ConstraintName(err) == requestTokenConstraint {
					return errRequestTokenTaken
				}
				return apperr.ConcurrentModification()
			}
			return fmt.Errorf("create order: %w", err)
		}
		if err := uc.repo.CreateItems(ctx, o.Items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		switch orderType {
		case model.OrderTypeOutbound:
			for i, item := range o.Items {
				a, err := uc.stock.Allocate(ctx, &invdto.AllocateInput{
					Token:     allocationToken(o.ID, i),
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					OrderID:   &o.ID,
					UserID:    input.UserID,
				})
				if err != nil {
					return err
				}
				allocations = append(allocations, a)
			}
		case model.OrderTypeInbound:
			if assignments := putAway(o.Items); len(assignments) > 0 {
				if err := uc.capacity.CheckCapacity(ctx, assignments); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if errors.Is(err, errRequestTokenTaken) {
		// A concurrent request with the same token committed first.
		if postgres.InTx(ctx) {
			return nil, apperr.ConcurrentModification()
		}
		res, err := uc.replay(ctx, *token, orderType, input)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, apperr.ConcurrentModification()
		}
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("order_type", string(o.OrderType)),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)
	uc.publishOrder(ctx, event.TypeOrderCreated, o)
	for _, a := range allocations {
		uc.publishAllocation(ctx, a)
	}
	if orderType == model.OrderTypeOutbound {
		uc.notifyLowStockAsync(productIDs(o.Items))
	}
	return &dto.CreateOrderResult{Order: o, CreditWarning: warning}, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OrderType == model.OrderTypeOutbound {
		if o.Tracking, err = uc.repo.ListTracking(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.OrderType != "" && !model.OrderType(filters.OrderType).Valid() {
		return nil, 0, apperr.Invalid("order_type")
	}
	if filters.Status != "" && !model.OrderStatus(filters.Status).Valid() {
		return nil, 0, apperr.Invalid("status")
	}
	if filters.ShippingStatus != "" && !model.ShippingStatus(filters.ShippingStatus).Valid() {
		return nil, 0, apperr.Invalid("shipping_status")
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	if input.Status == "" {
		return nil, apperr.Required("status")
	}
	to := model.OrderStatus(input.Status)

	var (
		result *model.Order
		from   model.OrderStatus
	)
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.lockOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if err := fulfillment.ValidateOrderTransition(o.Status, to); err != nil {
			return fulfillment.AppError(err)
		}

		switch {
		case o.OrderType == model.OrderTypeInbound && to == model.OrderStatusCompleted:
			if err := uc.receiveInbound(ctx, o, input.UserID); err != nil {
				return err
			}
		case o.OrderType == model.OrderTypeOutbound && to == model.OrderStatusCancelled:
			if err := uc.cancelOutbound(ctx, o, input.UserID); err != nil {
				return err
			}
		}

		now := uc.now()
		if err := uc.repo.UpdateStatus(ctx, o.ID, to, now); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		from = o.Status
		o.Status = to
		o.UpdatedAt = now
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order status changed",
		zap.String("order_id", result.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	uc.publishOrder(ctx, event.TypeOrderStatusChanged, result)
	return result, nil
}

func (uc *orderUseCase) UpdateShippingStatus(ctx context.Context, input *dto.UpdateShippingStatusInput) (*model.Order, error) {
	if input.Status == "" {
		return nil, apperr.Required("status")
	}
	to := model.ShippingStatus(input.Status)

	var result *model.Order
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.lockOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o.OrderType != model.OrderTypeOutbound {
			return apperr.Validation(apperr.CodeInvalidValue, map[string]interface{}{"Field": "order_type"},
				"shipping status applies to outbound orders only")
		}
		if o.Status == model.OrderStatusCancelled {
			return closedError(o)
		}
		if err := fulfillment.ValidateShippingTransition(o.ShippingStatus, to); err != nil {
			return fulfillment.AppError(err)
		}

		last, err := uc.repo.LastTrackingTime(ctx, o.ID)
		if err != nil {
			return err
		}
		at := fulfillment.NextTrackingTime(last, uc.now())

		if err := uc.repo.UpdateShippingStatus(ctx, o.ID, to, at); err != nil {
			return fmt.Errorf("update shipping status: %w", err)
		}
		entry := &model.ShipmentTracking{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			Status:    to,
			Location:  trimmed(input.Location),
			Notes:     trimmed(input.Notes),
			CreatedBy: auth.ActorID(input.UserID),
			CreatedAt: at,
		}
		if err := uc.repo.AddTracking(ctx, entry); err != nil {
			return fmt.Errorf("add tracking entry: %w", err)
		}

		o.ShippingStatus = to
		o.UpdatedAt = at
		if o.Tracking, err = uc.repo.ListTracking(ctx, o.ID); err != nil {
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishOrder(ctx, event.TypeShippingStatusChanged, result)
	return result, nil
}

func (uc *orderUseCase) UpdateShippingDetails(ctx context.Context, input *dto.UpdateShippingDetailsInput) (*model.Order, error) {
	var result *model.Order
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.lockOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o.IsClosed() {
			return closedError(o)
		}

		if input.ShippingAddress != nil {
			o.ShippingAddress = trimmed(input.ShippingAddress)
		}
		if input.ShippingCarrier != nil {
			o.ShippingCarrier = trimmed(input.ShippingCarrier)
		}
		if input.TrackingNumber != nil {
			o.TrackingNumber = trimmed(input.TrackingNumber)
		}
		o.UpdatedAt = uc.now()

		if err := uc.repo.UpdateShippingDetails(ctx, o); err != nil {
			return fmt.Errorf("update shipping details: %w", err)
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *orderUseCase) ListTracking(ctx context.Context, orderID string) ([]model.ShipmentTracking, error) {
	if _, err := uc.findOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.repo.ListTracking(ctx, orderID)
}

// chargeCredit evaluates total against the locked customer row and books it
// onto the balance. An exceeded limit is raised only when autoRaise is set.
func (uc *orderUseCase) chargeCredit(ctx context.Context, customerID string, total decimal.Decimal, autoRaise bool) (*fulfillment.CreditAssessment, error) {
	c, err := uc.customers.LockByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("customer", customerID)
	}

	a := fulfillment.EvaluateCredit(c.CreditLimit, c.CurrentBalance, total)
	if a.Exceeded() {
		if !autoRaise {
			return nil, apperr.Validation(apperr.CodeCreditLimitExceeded, map[string]interface{}{
				"NewBalance":     a.NewBalance.StringFixed(2),
				"Limit":          a.CreditLimit.StringFixed(2),
				"SuggestedLimit": a.SuggestedLimit.StringFixed(2),
			}, "order would bring balance to %s, above credit limit %s",
				a.NewBalance.StringFixed(2), a.CreditLimit.StringFixed(2))
		}
		if err := uc.customers.SetCreditLimit(ctx, customerID, *a.SuggestedLimit); err != nil {
			return nil, fmt.Errorf("raise credit limit: %w", err)
		}
		uc.logger.Info("credit limit raised",
			zap.String("customer_id", customerID),
			zap.String("from", a.CreditLimit.StringFixed(2)),
			zap.String("to", a.SuggestedLimit.StringFixed(2)),
		)
	}

	if err := uc.customers.AddBalance(ctx, customerID, total); err != nil {
		return nil, fmt.Errorf("add customer balance: %w", err)
	}
	return &a, nil
}

func (uc *orderUseCase) receiveInbound(ctx context.Context, o *model.Order, userID string) error {
	assignments := putAway(o.Items)
	if len(assignments) == 0 {
		return nil
	}
	if err := uc.capacity.CheckCapacity(ctx, assignments); err != nil {
		return err
	}

	for _, item := range o.Items {
		if item.LocationID == nil {
			continue
		}
		_, err := uc.stock.ReceiveStock(ctx, &invdto.ReceiveStockInput{
			ProductID:     item.ProductID,
			LocationID:    *item.LocationID,
			Quantity:      item.Quantity,
			LotNumber:     item.LotNumber,
			ExpiryDate:    item.ExpiryDate,
			ReferenceType: invdto.ReferenceInboundOrder,
			ReferenceID:   o.ID,
			Notes:         "received from " + o.OrderNumber,
			UserID:        userID,
			AllowArchived: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (uc *orderUseCase) cancelOutbound(ctx context.Context, o *model.Order, userID string) error {
	if err := uc.stock.ReleaseOrderAllocations(ctx, o.ID, userID); err != nil {
		return err
	}
	if o.CustomerID == nil {
		return nil
	}
	if err := uc.customers.AddBalance(ctx, *o.CustomerID, o.TotalAmount.Neg()); err != nil {
		return fmt.Errorf("credit customer balance: %w", err)
	}
	return nil
}

func (uc *orderUseCase) checkReferences(ctx context.Context, orderType model.OrderType, input *dto.CreateOrderInput) error {
	switch orderType {
	case model.OrderTypeInbound:
		id := strings.TrimSpace(*input.SupplierID)
		s, err := uc.suppliers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return apperr.NotFound("supplier", id)
		}
	case model.OrderTypeOutbound:
		id := strings.TrimSpace(*input.CustomerID)
		c, err := uc.customers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("customer", id)
		}
		if !c.IsActive {
			return apperr.Invalid("customer_id")
		}
	}

	seenProducts := map[string]bool{}
	seenLocations := map[string]bool{}
	for _, item := range input.Items {
		if !seenProducts[item.ProductID] {
			seenProducts[item.ProductID] = true
			p, err := uc.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return apperr.NotFound("product", item.ProductID)
			}
			if p.IsArchived {
				return apperr.Validation(apperr.CodeProductArchived,
					map[string]interface{}{"SKU": p.SKU}, "product %s is archived", p.SKU)
			}
		}

		if item.LocationID == nil || seenLocations[*item.LocationID] {
			continue
		}
		seenLocations[*item.LocationID] = true
		loc, err := uc.locations.FindByID(ctx, *item.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fulfillment.AppError(&fulfillment.UnknownLocationError{LocationID: *item.LocationID})
		}
	}
	return nil
}

func (uc *orderUseCase) nextOrderNumber(ctx context.Context, at time.Time) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := uc.newOrderNumber(at)
		taken, err := uc.repo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !taken {
			return number, nil
		}
		uc.logger.Debug("order number collision", zap.String("order_number", number), zap.Int("attempt", attempt+1))
	}
	return "", apperr.Unavailable("could not generate a unique order number")
}

func (uc *orderUseCase) findOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) lockOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) publishOrder(ctx context.Context, eventType string, o *model.Order) {
	err := uc.publisher.Publish(ctx, o.ID, eventType, event.OrderPayload{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		OrderType:   string(o.OrderType),
		Status:      string(o.Status),
		Shipping:    string(o.ShippingStatus),
	})
	if err != nil {
		uc.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

// publishAllocation announces an allocation made inside the order's
// transaction; the inventory use case only publishes the ones it commits itself.
func (uc *orderUseCase) publishAllocation(ctx context.Context, a *model.Allocation) {
	err := uc.publisher.Publish(ctx, a.ProductID, event.TypeStockAllocated, event.StockAllocatedPayload{
		Token:     a.Token,
		ProductID: a.ProductID,
		OrderID:   a.OrderID,
		Quantity:  a.Quantity,
	})
	if err != nil {
		uc.logger.Error("failed to publish event",
			zap.String("event_type", event.TypeStockAllocated),
			zap.String("token", a.Token),
			zap.Error(err),
		)
	}
}

func (uc *orderUseCase) notifyLowStockAsync(ids []string) {
	uc.runAsync(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.stock.NotifyLowStock(ctx, ids...); err != nil {
			uc.logger.Error("low stock check failed", zap.Strings("product_ids", ids), zap.Error(err))
		}
	})
}

func validateCreate(orderType model.OrderType, input *dto.CreateOrderInput) error {
	supplierID, customerID := trimmed(input.SupplierID), trimmed(input.CustomerID)
	switch orderType {
	case model.OrderTypeInbound:
		if supplierID == nil {
			return apperr.Required("supplier_id")
		}
		if customerID != nil {
			return apperr.Invalid("customer_id")
		}
	case model.OrderTypeOutbound:
		if customerID == nil {
			return apperr.Required("customer_id")
		}
		if supplierID != nil {
			return apperr.Invalid("supplier_id")
		}
	case "":
		return apperr.Required("order_type")
	default:
		return apperr.Invalid("order_type")
	}

	if len(input.Items) == 0 {
		return apperr.Required("items")
	}
	for _, item := range input.Items {
		switch {
		case item.ProductID == "":
			return apperr.Required("items.product_id")
		case item.Quantity <= 0:
			return fulfillment.AppError(&fulfillment.InvalidQuantityError{Quantity: item.Quantity})
		case item.UnitPrice.IsNegative():
			return apperr.Invalid("items.unit_price")
		case orderType == model.OrderTypeOutbound && item.LocationID != nil:
			return apperr.Invalid("items.location_id")
		}
	}
	return nil
}

// replay returns the order already stored under token, or nil when there is
// none. A stored order that differs from input is a token_reused conflict.
func (uc *orderUseCase) replay(ctx context.Context, token string, orderType model.OrderType, input *dto.CreateOrderInput) (*dto.CreateOrderResult, error) {
	existing, err := uc.repo.FindByRequestToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if !sameOrder(existing, orderType, input) {
		return nil, apperr.Conflict(apperr.CodeTokenReused, map[string]interface{}{"Token": token},
			"request token %s was already used for a different order", token)
	}
	return &dto.CreateOrderResult{Order: existing, Replayed: true}, nil
}

// sameOrder compares type, counterparty and lines. Stored items come back in
// no particular order, so lines are compared as a multiset.
func sameOrder(o *model.Order, orderType model.OrderType, input *dto.CreateOrderInput) bool {
	if o.OrderType != orderType ||
		!equalPtr(o.SupplierID, trimmed(input.SupplierID)) ||
		!equalPtr(o.CustomerID, trimmed(input.CustomerID)) ||
		len(o.Items) != len(input.Items) {
		return false
	}

	lines := make(map[string]int, len(o.Items))
	for _, item := range o.Items {
		lines[lineKey(item.ProductID, item.LocationID, item.Quantity, item.UnitPrice)]++
	}
	for _, in := range input.Items {
		key := lineKey(in.ProductID, in.LocationID, in.Quantity, in.UnitPrice)
		if lines[key] == 0 {
			return false
		}
		lines[key]--
	}
	return true
}

func lineKey(productID string, locationID *string, qty int, price decimal.Decimal) string {
	loc := ""
	if locationID != nil {
		loc = *locationID
	}
	return fmt.Sprintf("%s|%s|%d|%s", productID, loc, qty, price.String())
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func buildItems(orderID string, inputs []dto.OrderItemInput, now time.Time) ([]model.OrderItem, decimal.Decimal) {
	items := make([]model.OrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(subtotal)
		items = append(items, model.OrderItem{
			ID:         uuid.New().String(),
			OrderID:    orderID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			Subtotal:   subtotal,
			LocationID: in.LocationID,
			LotNumber:  trimmed(in.LotNumber),
			ExpiryDate: in.ExpiryDate,
			CreatedAt:  now,
		})
	}
	return items, total
}

func putAway(items []model.OrderItem) []fulfillment.Assignment {
	var out []fulfillment.Assignment
	for _, item := range items {
		if item.LocationID != nil {
			out = append(out, fulfillment.Assignment{LocationID: *item.LocationID, Quantity: item.Quantity})
		}
	}
	return out
}

func productIDs(items []model.OrderItem) []string {
	seen := map[string]bool{}
	var ids []string
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func allocationToken(orderID string, line int) string {
	return fmt.Sprintf("%s:%d", orderID, line)
}

func closedError(o *model.Order) error {
	return apperr.Conflict(apperr.CodeOrderClosed, map[string]interface{}{"OrderNumber": o.OrderNumber},
		"order %s is %s", o.OrderNumber, o.Status)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
