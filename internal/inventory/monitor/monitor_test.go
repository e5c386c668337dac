package monitor

import (
	"context"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	levels   []model.StockLevel
	pages    []int
	notified []string
}

func (s *stubSource) ListLowStock(_ context.Context, page, pageSize int) ([]model.StockLevel, int, error) {
	s.pages = append(s.pages, page)
	start := (page - 1) * pageSize
	if start >= len(s.levels) {
		return nil, len(s.levels), nil
	}
	end := min(start+pageSize, len(s.levels))
	return s.levels[start:end], len(s.levels), nil
}

func (s *stubSource) NotifyLowStock(_ context.Context, ids ...string) error {
	s.notified = append(s.notified, ids...)
	return nil
}

func TestScan_walksAllPages(t *testing.T) {
	src := &stubSource{}
	for i := 0; i < scanPageSize+5; i++ {
		src.levels = append(src.levels, model.StockLevel{ProductID: fmt.Sprintf("p%d", i), LowStock: true})
	}
	m := NewLowStockMonitor(src, "@every 1m", logger.NewNop())

	n, err := m.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scanPageSize+5, n)
	assert.Equal(t, []int{1, 2}, src.pages)
	assert.Len(t, src.notified, scanPageSize+5)
}

func TestScan_nothingLow(t *testing.T) {
	src := &stubSource{}
	n, err := NewLowStockMonitor(src, "@every 1m", logger.NewNop()).Scan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, src.notified)
}

func TestStart_rejectsBadSchedule(t *testing.T) {
	m := NewLowStockMonitor(&stubSource{}, "every now and then", logger.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestStart_stopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewLowStockMonitor(&stubSource{}, "@every 1h", logger.NewNop())
	require.NoError(t, m.Start(ctx))
	cancel()
}
