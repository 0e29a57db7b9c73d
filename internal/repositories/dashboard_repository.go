package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetTotals(ctx context.Context) (*dto.DashboardTotalsDTO, error)
	GetRecentOperations(ctx context.Context, limit int) ([]entities.Operation, error)
}

type DashboardRepository struct {
	storage    *pgxpool.Pool
	operations OperationRepositoryInterface
	logger     *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, operations OperationRepositoryInterface, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, operations: operations, logger: logger}
}

func (r *DashboardRepository) GetTotals(ctx context.Context) (*dto.DashboardTotalsDTO, error) {
	var t dto.DashboardTotalsDTO
	err := r.storage.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM material_parts),
			(SELECT COUNT(*) FROM operations),
			(SELECT COUNT(*) FROM astral_revisions),
			(SELECT COUNT(*) FROM astral_parts),
			(SELECT COUNT(*) FROM devices),
			(SELECT COUNT(*) FROM devices WHERE is_used),
			(SELECT COUNT(*) FROM astral_parts WHERE is_used)`,
	).Scan(&t.MaterialParts, &t.Operations, &t.AstralRevisions, &t.AstralParts, &t.Devices, &t.UsedDevices, &t.UsedParts)
	if err != nil {
		r.logger.Error("DashboardRepository.GetTotals: ошибка запроса", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *DashboardRepository) GetRecentOperations(ctx context.Context, limit int) ([]entities.Operation, error) {
	ops, _, err := r.operations.List(ctx, types.Filter{Limit: limit, WithPagination: true})
	return ops, err
}
