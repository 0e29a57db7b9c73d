package repositories

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	db "inventory-system/internal/infrastructure/bd"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

var warehouseMap = map[string]string{
	"id":         "w.id",
	"name":       "w.name",
	"parent_id":  "w.parent_id",
	"created_at": "w.created_at",
}

var warehouseColumns = []string{"w.id", "w.name", "w.description", "w.parent_id", "w.created_at", "w.updated_at", "pw.name"}

type WarehouseRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.MaterialWarehouse, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialWarehouse, error)
	Create(ctx context.Context, tx pgx.Tx, w entities.MaterialWarehouse) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, w entities.MaterialWarehouse) error
	Delete(ctx context.Context, id uint64) error
}

type WarehouseRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWarehouseRepository(storage *pgxpool.Pool, logger *zap.Logger) WarehouseRepositoryInterface {
	return &WarehouseRepository{storage: storage, logger: logger}
}

func scanWarehouse(row pgx.Row) (*entities.MaterialWarehouse, error) {
	var (
		w          entities.MaterialWarehouse
		parentID   sql.NullInt64
		parentName sql.NullString
	)
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &parentID, &w.CreatedAt, &w.UpdatedAt, &parentName); err != nil {
		return nil, scanOne(err, "material_warehouse")
	}
	w.ParentID = nullUint64(parentID)
	w.ParentName = nullString(parentName)
	return &w, nil
}

func warehouseFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("material_warehouses AS w").LeftJoin("material_warehouses pw ON pw.id = w.parent_id")
}

func (r *WarehouseRepository) List(ctx context.Context, filter types.Filter) ([]entities.MaterialWarehouse, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return searchAny(b, filter.Search, "w.name", "w.description")
	}

	countBuilder := applySearch(warehouseFrom(psql.Select("COUNT(w.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), warehouseMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("WarehouseRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.MaterialWarehouse{}, 0, nil
	}

	baseBuilder := applySearch(warehouseFrom(psql.Select(warehouseColumns...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("w.name ASC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, warehouseMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	out := make([]entities.MaterialWarehouse, 0, filter.Limit)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *w)
	}
	return out, total, mapPgError(rows.Err())
}

func (r *WarehouseRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialWarehouse, error) {
	query, args, err := warehouseFrom(psql.Select(warehouseColumns...)).Where(sq.Eq{"w.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanWarehouse(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *WarehouseRepository) Create(ctx context.Context, tx pgx.Tx, w entities.MaterialWarehouse) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx,
		"INSERT INTO material_warehouses (name, description, parent_id) VALUES ($1, $2, $3) RETURNING id",
		w.Name, w.Description, w.ParentID,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *WarehouseRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, w entities.MaterialWarehouse) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE material_warehouses SET name = $1, description = $2, parent_id = $3, updated_at = NOW() WHERE id = $4",
		w.Name, w.Description, w.ParentID, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WarehouseRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, "material_warehouses", id)
}
