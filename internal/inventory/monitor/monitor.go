package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	scanPageSize = 100
	scanTimeout  = 2 * time.Minute
)

// LowStockSource is implemented by the inventory use case.
type LowStockSource interface {
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.StockLevel, int, error)
	NotifyLowStock(ctx context.Context, productIDs ...string) error
}

// LowStockMonitor periodically publishes LowStockDetected for every product at
// or below its minimum stock.
type LowStockMonitor struct {
	src      LowStockSource
	schedule string
	logger   logger.ZapLogger
}

func NewLowStockMonitor(src LowStockSource, schedule string, log logger.ZapLogger) *LowStockMonitor {
	return &LowStockMonitor{
		src:      src,
		schedule: schedule,
		logger:   log,
	}
}

// Start registers the scan on the cron schedule and stops the scheduler when
// ctx is cancelled. It returns once the schedule is registered.
func (m *LowStockMonitor) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(m.schedule, func() {
		scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
		defer cancel()
		if _, err := m.Scan(scanCtx); err != nil {
			m.logger.Error("low stock scan failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("register low stock schedule %q: %w", m.schedule, err)
	}

	c.Start()
	m.logger.Info("Low stock monitor started", zap.String("schedule", m.schedule))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		m.logger.Info("Low stock monitor stopped")
	}()
	return nil
}

// Scan walks every low-stock page and publishes one event per product. It
// returns the number of products flagged.
func (m *LowStockMonitor) Scan(ctx context.Context) (int, error) {
	var ids []string
	for page := 1; ; page++ {
		items, total, err := m.src.ListLowStock(ctx, page, scanPageSize)
		if err != nil {
			return 0, fmt.Errorf("list low stock page %d: %w", page, err)
		}
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		if len(items) == 0 || page*scanPageSize >= total {
			break
		}
	}

	if len(ids) == 0 {
		m.logger.Debug("low stock scan found nothing")
		return 0, nil
	}
	if err := m.src.NotifyLowStock(ctx, ids...); err != nil {
		return 0, fmt.Errorf("notify low stock: %w", err)
	}
	m.logger.Info("low stock scan complete", zap.Int("products", len(ids)))
	return len(ids), nil
}
