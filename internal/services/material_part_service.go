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

type MaterialPartServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.MaterialPart, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.MaterialPart, error)
	Create(ctx context.Context, in dto.MaterialPartDTO) (*entities.MaterialPart, error)
	Update(ctx context.Context, id uint64, in dto.MaterialPartDTO) (*entities.MaterialPart, error)
	Delete(ctx context.Context, id uint64) error
}

type MaterialPartService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.MaterialPartRepositoryInterface
	hierarchy HierarchyServiceInterface
	logger    *zap.Logger
}

func NewMaterialPartService(
	txManager repositories.TxManagerInterface,
	repo repositories.MaterialPartRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	logger *zap.Logger,
) MaterialPartServiceInterface {
	return &MaterialPartService{txManager: txManager, repo: repo, hierarchy: hierarchy, logger: logger}
}

func (s *MaterialPartService) List(ctx context.Context, filter types.Filter) ([]entities.MaterialPart, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *MaterialPartService) Get(ctx context.Context, id uint64) (*entities.MaterialPart, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *MaterialPartService) Create(ctx context.Context, in dto.MaterialPartDTO) (*entities.MaterialPart, error) {
	part := materialPartFromDTO(in)

	var created *entities.MaterialPart
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.MaterialParts, 0, part.ParentID); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, part)
		if err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("MaterialPartService.Create: ошибка", zap.String("serial", part.Serial), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Материальный узел создан", zap.Uint64("id", created.ID), zap.String("serial", created.Serial))
	return created, nil
}

func (s *MaterialPartService) Update(ctx context.Context, id uint64, in dto.MaterialPartDTO) (*entities.MaterialPart, error) {
	part := materialPartFromDTO(in)

	var updated *entities.MaterialPart
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.MaterialParts, id, part.ParentID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, id, part); err != nil {
			return err
		}
		var err error
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("MaterialPartService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// Delete удаляет экземпляр вместе с его записями журнала; дочерние экземпляры становятся корневыми.
func (s *MaterialPartService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("MaterialPartService.Delete: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("Материальный узел удалён", zap.Uint64("id", id))
	return nil
}

func materialPartFromDTO(in dto.MaterialPartDTO) entities.MaterialPart {
	return entities.MaterialPart{
		Serial:               strings.TrimSpace(in.Serial),
		AstralRevisionID:     in.AstralRevisionID,
		AstralManufacturerID: in.AstralManufacturerID,
		AstralYearID:         in.AstralYearID,
		ParentID:             in.ParentID.Ptr(),
	}
}
