package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-warehouse-service/internal/model"
)

type UseCase interface {
	GetMetrics(ctx context.Context) (*model.DashboardMetrics, error)
}
