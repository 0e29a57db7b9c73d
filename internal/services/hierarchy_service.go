package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/hierarchy"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

type HierarchyServiceInterface interface {
	ListChildren(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error)
	// ListAncestors возвращает цепочку от родителя к корню; ErrCycleDetected при повторе узла.
	ListAncestors(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error)
	ListDescendants(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error)
	// ValidateReparent проверяет, что newParent существует и не лежит в поддереве id.
	// Вызывается внутри транзакции записи; блокирует иерархию до её конца.
	ValidateReparent(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64, newParent *uint64) error
}

type HierarchyService struct {
	repo   repositories.HierarchyRepositoryInterface
	logger *zap.Logger
}

func NewHierarchyService(repo repositories.HierarchyRepositoryInterface, logger *zap.Logger) HierarchyServiceInterface {
	return &HierarchyService{repo: repo, logger: logger}
}

func (s *HierarchyService) ListChildren(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error) {
	forest, err := s.repo.LoadChildren(ctx, tree, id)
	if err != nil {
		return nil, err
	}
	return forest.Children(id), nil
}

func (s *HierarchyService) ListAncestors(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error) {
	forest, err := s.repo.LoadAncestry(ctx, nil, tree, id)
	if err != nil {
		return nil, err
	}
	chain, err := forest.Ancestors(id)
	if err != nil {
		s.logger.Error("HierarchyService.ListAncestors: повреждённая иерархия",
			zap.String("tree", string(tree)), zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return chain, nil
}

func (s *HierarchyService) ListDescendants(ctx context.Context, tree hierarchy.Tree, id uint64) ([]hierarchy.Node, error) {
	forest, err := s.repo.LoadSubtree(ctx, nil, tree, id)
	if err != nil {
		return nil, err
	}
	nodes, err := forest.Descendants(id)
	if err != nil {
		s.logger.Error("HierarchyService.ListDescendants: повреждённая иерархия",
			zap.String("tree", string(tree)), zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return nodes, nil
}

func (s *HierarchyService) ValidateReparent(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64, newParent *uint64) error {
	if newParent == nil {
		return nil
	}
	if *newParent == 0 {
		return apperrors.NewBadRequestError("parent_id должен быть положительным числом")
	}
	if *newParent == id {
		return fmt.Errorf("%w: узел %d не может быть родителем самому себе", apperrors.ErrCycleDetected, id)
	}
	if err := s.repo.LockTree(ctx, tx, tree); err != nil {
		return err
	}

	forest, err := s.repo.LoadAncestry(ctx, tx, tree, *newParent)
	if err != nil {
		return missingParent(tree, *newParent, err)
	}
	if err := forest.CheckReparent(id, newParent); err != nil {
		if errors.Is(err, apperrors.ErrCycleDetected) {
			s.logger.Warn("HierarchyService.ValidateReparent: отклонено",
				zap.String("tree", string(tree)), zap.Uint64("id", id), zap.Uint64("newParent", *newParent))
		}
		return missingParent(tree, *newParent, err)
	}
	return nil
}

// missingParent: отсутствующий родитель - нарушение ссылочной целостности, а не 404 самого ресурса.
func missingParent(tree hierarchy.Tree, parentID uint64, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewIntegrityError(string(tree)+"_parent_id_fkey", fmt.Sprintf("родитель %d не найден", parentID))
	}
	return err
}
