package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/dashboard"
	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	metricsCacheKey  = "dashboard:metrics"
	metricsCacheTTL  = 30 * time.Second
	recentOrderLimit = 5
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// OverStockCounter is implemented by the location use case.
type OverStockCounter interface {
	CountOverStock(ctx context.Context) (int, error)
}

type dashboardUseCase struct {
	repo      dashboard.Repository
	locations OverStockCounter
	cache     Cache
	logger    logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, locations OverStockCounter, cache Cache, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:      repo,
		locations: locations,
		cache:     cache,
		logger:    log,
	}
}

func (uc *dashboardUseCase) GetMetrics(ctx context.Context) (*model.DashboardMetrics, error) {
	if data, err := uc.cache.Get(ctx, metricsCacheKey); err == nil {
		var m model.DashboardMetrics
		if err := json.Unmarshal(data, &m); err == nil {
			return &m, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.logger.Warn("dashboard cache read failed", zap.Error(err))
	}

	m, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(m); err == nil {
		if err := uc.cache.Set(ctx, metricsCacheKey, data, metricsCacheTTL); err != nil {
			uc.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return m, nil
}

func (uc *dashboardUseCase) compute(ctx context.Context) (*model.DashboardMetrics, error) {
	var (
		m   model.DashboardMetrics
		err error
	)

	if m.ProductCount, m.ArchivedProductCount, err = uc.repo.ProductCounts(ctx); err != nil {
		return nil, fmt.Errorf("product counts: %w", err)
	}
	if m.TotalUnits, m.StockValue, err = uc.repo.StockTotals(ctx); err != nil {
		return nil, fmt.Errorf("stock totals: %w", err)
	}
	if m.LowStockCount, err = uc.repo.LowStockCount(ctx); err != nil {
		return nil, fmt.Errorf("low stock count: %w", err)
	}
	if m.OrdersByStatus, m.OrdersByShipping, err = uc.repo.OrderCounts(ctx); err != nil {
		return nil, fmt.Errorf("order counts: %w", err)
	}
	if m.OverStockLocations, err = uc.locations.CountOverStock(ctx); err != nil {
		return nil, fmt.Errorf("over stock locations: %w", err)
	}
	if m.RecentOrders, err = uc.repo.RecentOrders(ctx, recentOrderLimit); err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	if m.RecentOrders == nil {
		m.RecentOrders = []model.Order{}
	}
	return &m, nil
}
