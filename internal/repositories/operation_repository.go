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

var operationMap = map[string]string{
	"id":                         "o.id",
	"datetime":                   "o.datetime",
	"status_id":                  "o.material_status_id",
	"material_status_id":         "o.material_status_id",
	"operation_type_id":          "o.material_operation_type_id",
	"material_operation_type_id": "o.material_operation_type_id",
	"material_user_id":           "o.material_user_id",
	"material_warehouse_id":      "o.material_warehouse_id",
	"device_id":                  "o.device_id",
	"material_part_id":           "o.material_part_id",
	"created_at":                 "o.created_at",
}

var operationColumns = []string{
	"o.id", "o.material_operation_type_id", "o.material_user_id", "o.material_status_id", "o.material_warehouse_id",
	"o.device_id", "o.material_part_id", "o.datetime", "o.description", "o.result", "o.created_by",
	"o.created_at", "o.updated_at",
	"COALESCE(ot.name, '')",
	"COALESCE(TRIM(CONCAT_WS(' ', u.second_name, u.first_name, NULLIF(u.patronymic, ''))), '')",
	"COALESCE(s.name, '')", "COALESCE(w.name, '')",
	"d.serial", "m.serial",
}

type OperationRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Operation, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Operation, error)
	Create(ctx context.Context, tx pgx.Tx, op entities.Operation) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, op entities.Operation) error
	// Delete удаляет запись и возвращает её цель для пересчёта.
	Delete(ctx context.Context, tx pgx.Tx, id uint64) (entities.OperationTarget, error)
}

type OperationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOperationRepository(storage *pgxpool.Pool, logger *zap.Logger) OperationRepositoryInterface {
	return &OperationRepository{storage: storage, logger: logger}
}

func scanOperation(row pgx.Row) (*entities.Operation, error) {
	var (
		op                          entities.Operation
		deviceID, partID, createdBy sql.NullInt64
		deviceSerial, partSerial    sql.NullString
	)
	err := row.Scan(
		&op.ID, &op.OperationTypeID, &op.UserID, &op.StatusID, &op.WarehouseID,
		&deviceID, &partID, &op.Datetime, &op.Description, &op.Result, &createdBy,
		&op.CreatedAt, &op.UpdatedAt,
		&op.OperationTypeName, &op.UserFullName, &op.StatusName, &op.WarehouseName,
		&deviceSerial, &partSerial,
	)
	if err != nil {
		return nil, scanOne(err, "operation")
	}
	op.DeviceID = nullUint64(deviceID)
	op.MaterialPartID = nullUint64(partID)
	op.CreatedBy = nullUint64(createdBy)
	op.DeviceSerial = nullString(deviceSerial)
	op.MaterialPartSerial = nullString(partSerial)
	return &op, nil
}

func operationFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("operations AS o").
		LeftJoin("material_operation_types ot ON ot.id = o.material_operation_type_id").
		LeftJoin("material_users u ON u.id = o.material_user_id").
		LeftJoin("material_statuses s ON s.id = o.material_status_id").
		LeftJoin("material_warehouses w ON w.id = o.material_warehouse_id").
		LeftJoin("devices d ON d.id = o.device_id").
		LeftJoin("material_parts m ON m.id = o.material_part_id")
}

func (r *OperationRepository) List(ctx context.Context, filter types.Filter) ([]entities.Operation, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return searchAny(b, filter.Search, "d.serial", "m.serial", "o.description", "o.result")
	}

	countBuilder := applySearch(operationFrom(psql.Select("COUNT(o.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), operationMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("OperationRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.Operation{}, 0, nil
	}

	baseBuilder := applySearch(operationFrom(psql.Select(operationColumns...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("o.datetime DESC", "o.id DESC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, operationMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	ops := make([]entities.Operation, 0, filter.Limit)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, 0, err
		}
		ops = append(ops, *op)
	}
	return ops, total, mapPgError(rows.Err())
}

func (r *OperationRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Operation, error) {
	query, args, err := operationFrom(psql.Select(operationColumns...)).Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanOperation(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *OperationRepository) Create(ctx context.Context, tx pgx.Tx, op entities.Operation) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO operations (
			material_operation_type_id, material_user_id, material_status_id, material_warehouse_id,
			device_id, material_part_id, datetime, description, result, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		op.OperationTypeID, op.UserID, op.StatusID, op.WarehouseID,
		op.DeviceID, op.MaterialPartID, op.Datetime, op.Description, op.Result, op.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *OperationRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, op entities.Operation) error {
	tag, err := pick(r.storage, tx).Exec(ctx, `
		UPDATE operations
		SET material_operation_type_id = $1, material_user_id = $2, material_status_id = $3, material_warehouse_id = $4,
		    device_id = $5, material_part_id = $6, datetime = $7, description = $8, result = $9, updated_at = NOW()
		WHERE id = $10`,
		op.OperationTypeID, op.UserID, op.StatusID, op.WarehouseID,
		op.DeviceID, op.MaterialPartID, op.Datetime, op.Description, op.Result, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OperationRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) (entities.OperationTarget, error) {
	var deviceID, partID sql.NullInt64
	err := pick(r.storage, tx).QueryRow(ctx,
		"DELETE FROM operations WHERE id = $1 RETURNING device_id, material_part_id", id,
	).Scan(&deviceID, &partID)
	if err != nil {
		return entities.OperationTarget{}, mapPgError(err)
	}
	op := entities.Operation{DeviceID: nullUint64(deviceID), MaterialPartID: nullUint64(partID)}
	target, _ := op.Target()
	return target, nil
}
