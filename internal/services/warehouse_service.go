package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/hierarchy"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
)

type WarehouseServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.MaterialWarehouse, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.MaterialWarehouse, error)
	Create(ctx context.Context, in dto.MaterialWarehouseDTO) (*entities.MaterialWarehouse, error)
	Update(ctx context.Context, id uint64, in dto.MaterialWarehouseDTO) (*entities.MaterialWarehouse, error)
	Delete(ctx context.Context, id uint64) error
}

type WarehouseService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.WarehouseRepositoryInterface
	hierarchy HierarchyServiceInterface
	logger    *zap.Logger
}

func NewWarehouseService(
	txManager repositories.TxManagerInterface,
	repo repositories.WarehouseRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	logger *zap.Logger,
) WarehouseServiceInterface {
	return &WarehouseService{txManager: txManager, repo: repo, hierarchy: hierarchy, logger: logger}
}

func (s *WarehouseService) List(ctx context.Context, filter types.Filter) ([]entities.MaterialWarehouse, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *WarehouseService) Get(ctx context.Context, id uint64) (*entities.MaterialWarehouse, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *WarehouseService) Create(ctx context.Context, in dto.MaterialWarehouseDTO) (*entities.MaterialWarehouse, error) {
	w := warehouseFromDTO(in)

	var created *entities.MaterialWarehouse
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.Warehouses, 0, w.ParentID); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, w)
		if err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("WarehouseService.Create: ошибка", zap.String("name", w.Name), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *WarehouseService) Update(ctx context.Context, id uint64, in dto.MaterialWarehouseDTO) (*entities.MaterialWarehouse, error) {
	w := warehouseFromDTO(in)

	var updated *entities.MaterialWarehouse
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.Warehouses, id, w.ParentID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, id, w); err != nil {
			return err
		}
		var err error
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("WarehouseService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// Delete запрещён, пока на склад ссылаются записи журнала (RESTRICT).
func (s *WarehouseService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("WarehouseService.Delete: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func warehouseFromDTO(in dto.MaterialWarehouseDTO) entities.MaterialWarehouse {
	return entities.MaterialWarehouse{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID.Ptr(),
	}
}
