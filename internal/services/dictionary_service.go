package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
)

// DictionaryServiceInterface - CRUD справочников без собственных правил.
type DictionaryServiceInterface[T any] interface {
	List(ctx context.Context, filter types.Filter) ([]T, uint64, error)
	Get(ctx context.Context, id uint64) (*T, error)
	Create(ctx context.Context, item T) (*T, error)
	Update(ctx context.Context, id uint64, item T) (*T, error)
	Delete(ctx context.Context, id uint64) error
}

type DictionaryService[T any] struct {
	name   string
	repo   repositories.DictionaryRepositoryInterface[T]
	logger *zap.Logger
}

func NewDictionaryService[T any](name string, repo repositories.DictionaryRepositoryInterface[T], logger *zap.Logger) DictionaryServiceInterface[T] {
	return &DictionaryService[T]{name: name, repo: repo, logger: logger.With(zap.String("dictionary", name))}
}

func (s *DictionaryService[T]) List(ctx context.Context, filter types.Filter) ([]T, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *DictionaryService[T]) Get(ctx context.Context, id uint64) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DictionaryService[T]) Create(ctx context.Context, item T) (*T, error) {
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		s.logger.Warn("DictionaryService.Create: ошибка", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *DictionaryService[T]) Update(ctx context.Context, id uint64, item T) (*T, error) {
	updated, err := s.repo.Update(ctx, id, item)
	if err != nil {
		s.logger.Warn("DictionaryService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *DictionaryService[T]) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("DictionaryService.Delete: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("Запись справочника удалена", zap.Uint64("id", id))
	return nil
}
