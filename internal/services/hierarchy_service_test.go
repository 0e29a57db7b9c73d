package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/hierarchy"
	apperrors "inventory-system/pkg/errors"
)

// fakeHierarchyRepo отдаёт срезы одной арены так же, как рекурсивные запросы.
type fakeHierarchyRepo struct {
	nodes  []hierarchy.Node
	locked []hierarchy.Tree
}

func (r *fakeHierarchyRepo) forest() *hierarchy.Forest { return hierarchy.NewForest(r.nodes...) }

func (r *fakeHierarchyRepo) LockTree(_ context.Context, _ pgx.Tx, tree hierarchy.Tree) error {
	r.locked = append(r.locked, tree)
	return nil
}

func (r *fakeHierarchyRepo) LoadAncestry(_ context.Context, _ pgx.Tx, _ hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	full := r.forest()
	start, ok := full.Node(id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := hierarchy.NewForest(start)
	seen := map[uint64]bool{id: true}
	for cur := start; cur.ParentID != nil && !seen[*cur.ParentID]; {
		parent, ok := full.Node(*cur.ParentID)
		if !ok {
			break
		}
		seen[parent.ID] = true
		out.Add(parent)
		cur = parent
	}
	return out, nil
}

func (r *fakeHierarchyRepo) LoadSubtree(_ context.Context, _ pgx.Tx, _ hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	full := r.forest()
	if _, ok := full.Node(id); !ok {
		return nil, apperrors.ErrNotFound
	}
	return full, nil
}

func (r *fakeHierarchyRepo) LoadChildren(ctx context.Context, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	return r.LoadSubtree(ctx, nil, tree, id)
}

func newHierarchyFixture() (*fakeHierarchyRepo, HierarchyServiceInterface) {
	repo := &fakeHierarchyRepo{nodes: []hierarchy.Node{
		{ID: 1, Label: "Шасси"},
		{ID: 2, ParentID: ptr(1), Label: "Плата"},
		{ID: 3, ParentID: ptr(2), Label: "Процессор"},
		{ID: 4, Label: "Кабель"},
	}}
	return repo, NewHierarchyService(repo, zap.NewNop())
}

func TestHierarchyService_Reads(t *testing.T) {
	_, svc := newHierarchyFixture()
	ctx := context.Background()

	children, err := svc.ListChildren(ctx, hierarchy.AstralParts, 1)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Плата", children[0].Label)

	ancestors, err := svc.ListAncestors(ctx, hierarchy.AstralParts, 3)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, uint64(2), ancestors[0].ID)
	assert.Equal(t, uint64(1), ancestors[1].ID)

	descendants, err := svc.ListDescendants(ctx, hierarchy.AstralParts, 1)
	require.NoError(t, err)
	assert.Len(t, descendants, 2)

	_, err = svc.ListChildren(ctx, hierarchy.AstralParts, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHierarchyService_ValidateReparent(t *testing.T) {
	repo, svc := newHierarchyFixture()
	ctx := context.Background()

	assert.NoError(t, svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 3, nil))
	assert.Empty(t, repo.locked, "отвязка от родителя не требует блокировки")

	assert.NoError(t, svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 2, ptr(4)))
	assert.Equal(t, []hierarchy.Tree{hierarchy.AstralParts}, repo.locked)

	assert.ErrorIs(t, svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 2, ptr(2)), apperrors.ErrCycleDetected)
	assert.ErrorIs(t, svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 1, ptr(3)), apperrors.ErrCycleDetected)

	err := svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 2, ptr(77))
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	// новый узел (id = 0) может ссылаться на любого существующего родителя
	assert.NoError(t, svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 0, ptr(3)))

	err = svc.ValidateReparent(ctx, nil, hierarchy.AstralParts, 0, ptr(0))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.NotErrorIs(t, err, apperrors.ErrCycleDetected)
}

func TestHierarchyService_CorruptCycleIsReported(t *testing.T) {
	repo := &fakeHierarchyRepo{nodes: []hierarchy.Node{
		{ID: 1, ParentID: ptr(2)},
		{ID: 2, ParentID: ptr(1)},
	}}
	svc := NewHierarchyService(repo, zap.NewNop())

	_, err := svc.ListAncestors(context.Background(), hierarchy.Warehouses, 1)
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)

	_, err = svc.ListDescendants(context.Background(), hierarchy.Warehouses, 1)
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)
}
