package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/hierarchy"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const releaseDateLayout = "2006-01-02"

type AstralRevisionServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.AstralRevision, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.AstralRevision, error)
	Create(ctx context.Context, in dto.AstralRevisionDTO) (*entities.AstralRevision, error)
	Update(ctx context.Context, id uint64, in dto.AstralRevisionDTO) (*entities.AstralRevision, error)
	Delete(ctx context.Context, id uint64) error
}

type AstralRevisionService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.AstralRevisionRepositoryInterface
	hierarchy HierarchyServiceInterface
	logger    *zap.Logger
}

func NewAstralRevisionService(
	txManager repositories.TxManagerInterface,
	repo repositories.AstralRevisionRepositoryInterface,
	hierarchy HierarchyServiceInterface,
	logger *zap.Logger,
) AstralRevisionServiceInterface {
	return &AstralRevisionService{txManager: txManager, repo: repo, hierarchy: hierarchy, logger: logger}
}

func (s *AstralRevisionService) List(ctx context.Context, filter types.Filter) ([]entities.AstralRevision, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *AstralRevisionService) Get(ctx context.Context, id uint64) (*entities.AstralRevision, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *AstralRevisionService) Create(ctx context.Context, in dto.AstralRevisionDTO) (*entities.AstralRevision, error) {
	rev, err := revisionFromDTO(in)
	if err != nil {
		return nil, err
	}

	var created *entities.AstralRevision
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.AstralRevisions, 0, rev.ParentID); err != nil {
			return err
		}
		id, err := s.repo.Create(ctx, tx, rev)
		if err != nil {
			return err
		}
		if err := s.repo.SetParts(ctx, tx, id, uniqueIDs(in.PartIDs)); err != nil {
			return err
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("AstralRevisionService.Create: ошибка", zap.String("name", rev.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Ревизия создана", zap.Uint64("id", created.ID))
	return created, nil
}

// Update заменяет поля и состав ревизии целиком.
func (s *AstralRevisionService) Update(ctx context.Context, id uint64, in dto.AstralRevisionDTO) (*entities.AstralRevision, error) {
	rev, err := revisionFromDTO(in)
	if err != nil {
		return nil, err
	}

	var updated *entities.AstralRevision
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		if err := s.hierarchy.ValidateReparent(ctx, tx, hierarchy.AstralRevisions, id, rev.ParentID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, id, rev); err != nil {
			return err
		}
		if err := s.repo.SetParts(ctx, tx, id, uniqueIDs(in.PartIDs)); err != nil {
			return err
		}
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("AstralRevisionService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *AstralRevisionService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("AstralRevisionService.Delete: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("Ревизия удалена", zap.Uint64("id", id))
	return nil
}

func revisionFromDTO(in dto.AstralRevisionDTO) (entities.AstralRevision, error) {
	rev := entities.AstralRevision{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ParentID:    in.ParentID.Ptr(),
	}
	if in.ReleaseDate.Valid && in.ReleaseDate.String != "" {
		date, err := time.Parse(releaseDateLayout, in.ReleaseDate.String)
		if err != nil {
			return rev, apperrors.NewHttpError(http.StatusBadRequest, "Дата выпуска должна быть в формате ГГГГ-ММ-ДД", err, nil)
		}
		rev.ReleaseDate = &date
	}
	return rev, nil
}
