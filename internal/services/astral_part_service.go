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
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

type AstralPartServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.AstralPart, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.AstralPart, error)
	Create(ctx context.Context, in dto.AstralPartDTO) (*entities.AstralPart, error)
	Update(ctx context.Context, id uint64, in dto.AstralPartDTO) (*entities.AstralPart, error)
	Delete(ctx context.Context, id uint64) error
	CountInstances(ctx context.Context, id uint64) (uint64, error)
}

type AstralPartService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.AstralPartRepositoryInterface
	hierarchy HierarchyServiceInterface
	logger    *zap.Logger
}

func NewAstralPartService(
	txManager repositories.TxManagerInterface,
	repo repositories.AstralPartRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	logger *zap.Logger,
) AstralPartServiceInterface {
	return &AstralPartService{txManager: txManager, repo: repo, hierarchy: hierarchy, logger: logger}
}

func (s *AstralPartService) List(ctx context.Context, filter types.Filter) ([]entities.AstralPart, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *AstralPartService) Get(ctx context.Context, id uint64) (*entities.AstralPart, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *AstralPartService) Create(ctx context.Context, in dto.AstralPartDTO) (*entities.AstralPart, error) {
	part, err := partFromDTO(in)
	if err != nil {
		return nil, err
	}

	var created *entities.AstralPart
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.AstralParts, 0, part.ParentID); err != nil {
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
		s.logger.Warn("AstralPartService.Create: ошибка", zap.String("decimalNum", part.DecimalNum), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Узел создан", zap.Uint64("id", created.ID), zap.String("decimalNum", created.DecimalNum))
	return created, nil
}

// Update полностью заменяет поля узла; смена родителя проверяется на цикл под блокировкой иерархии.
func (s *AstralPartService) Update(ctx context.Context, id uint64, in dto.AstralPartDTO) (*entities.AstralPart, error) {
	part, err := partFromDTO(in)
	if err != nil {
		return nil, err
	}

	var updated *entities.AstralPart
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.AstralParts, id, part.ParentID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, id, part); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("AstralPartService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// Delete: дети становятся корневыми, связи с устройствами и ревизиями удаляются каскадно.
func (s *AstralPartService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("AstralPartService.Delete: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("Узел удалён", zap.Uint64("id", id))
	return nil
}

func (s *AstralPartService) CountInstances(ctx context.Context, id uint64) (uint64, error) {
	return s.repo.CountInstances(ctx, id)
}

func partFromDTO(in dto.AstralPartDTO) (entities.AstralPart, error) {
	decimalNum := strings.TrimSpace(in.DecimalNum)
	if decimalNum == "" {
		return entities.AstralPart{}, apperrors.NewIntegrityError("astral_parts_decimal_num_not_blank", "децимальный номер обязателен")
	}
	return entities.AstralPart{
		Name:            strings.TrimSpace(in.Name),
		DecimalNum:      decimalNum,
		Description:     in.Description,
		AstralVariantID: in.AstralVariantID,
		ParentID:        in.ParentID.Ptr(),
	}, nil
}
