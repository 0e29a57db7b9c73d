package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/hierarchy"
	apperrors "inventory-system/pkg/errors"
)

// labelColumns - колонка, которая служит подписью узла в каждой иерархии.
var labelColumns = map[hierarchy.Tree]string{
	hierarchy.AstralParts:     "name",
	hierarchy.AstralRevisions: "name",
	hierarchy.MaterialParts:   "serial",
	hierarchy.Warehouses:      "name",
}

type HierarchyRepositoryInterface interface {
	// LockTree сериализует перестановки родителей внутри одной таблицы до конца транзакции.
	LockTree(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree) error
	LoadAncestry(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error)
	LoadSubtree(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error)
	// LoadChildren загружает узел и его прямых потомков.
	LoadChildren(ctx context.Context, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error)
}

type HierarchyRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewHierarchyRepository(storage *pgxpool.Pool, logger *zap.Logger) HierarchyRepositoryInterface {
	return &HierarchyRepository{storage: storage, logger: logger}
}

func treeColumns(tree hierarchy.Tree) (string, string, error) {
	label, ok := labelColumns[tree]
	if !ok {
		return "", "", apperrors.NewBadRequestError(fmt.Sprintf("неизвестная иерархия: %s", tree))
	}
	return string(tree), label, nil
}

func (r *HierarchyRepository) LockTree(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree) error {
	table, _, err := treeColumns(tree)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", table); err != nil {
		return fmt.Errorf("блокировка иерархии %s: %w", table, err)
	}
	return nil
}

// LoadAncestry загружает узел и всю цепочку его предков. UNION отсекает повторы при циклических данных.
func (r *HierarchyRepository) LoadAncestry(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	table, label, err := treeColumns(tree)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		WITH RECURSIVE chain AS (
			SELECT id, parent_id, %[2]s AS label FROM %[1]s WHERE id = $1
			UNION
			SELECT t.id, t.parent_id, t.%[2]s FROM %[1]s t JOIN chain c ON t.id = c.parent_id
		)
		SELECT id, parent_id, label FROM chain`, table, label)

	return r.loadForest(ctx, pick(r.storage, tx), query, id)
}

// LoadSubtree загружает узел и всех его потомков.
func (r *HierarchyRepository) LoadSubtree(ctx context.Context, tx pgx.Tx, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	table, label, err := treeColumns(tree)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		WITH RECURSIVE sub AS (
			SELECT id, parent_id, %[2]s AS label FROM %[1]s WHERE id = $1
			UNION
			SELECT t.id, t.parent_id, t.%[2]s FROM %[1]s t JOIN sub s ON t.parent_id = s.id
		)
		SELECT id, parent_id, label FROM sub`, table, label)

	return r.loadForest(ctx, pick(r.storage, tx), query, id)
}

func (r *HierarchyRepository) LoadChildren(ctx context.Context, tree hierarchy.Tree, id uint64) (*hierarchy.Forest, error) {
	table, label, err := treeColumns(tree)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT id, parent_id, %s FROM %s WHERE id = $1 OR parent_id = $1", label, table)
	forest, err := r.loadForest(ctx, r.storage, query, id)
	if err != nil {
		return nil, err
	}
	if _, ok := forest.Node(id); !ok {
		return nil, apperrors.ErrNotFound
	}
	return forest, nil
}

func (r *HierarchyRepository) loadForest(ctx context.Context, q Querier, query string, id uint64) (*hierarchy.Forest, error) {
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		r.logger.Error("HierarchyRepository: ошибка загрузки иерархии", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	forest := hierarchy.NewForest()
	for rows.Next() {
		var (
			n        hierarchy.Node
			parentID sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &parentID, &n.Label); err != nil {
			return nil, err
		}
		if parentID.Valid {
			pid := uint64(parentID.Int64)
			n.ParentID = &pid
		}
		forest.Add(n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if forest.Len() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return forest, nil
}
