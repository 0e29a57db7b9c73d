package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	db "inventory-system/internal/infrastructure/bd"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

var deviceMap = map[string]string{
	"id":         "d.id",
	"serial":     "d.serial",
	"name":       "d.name",
	"is_used":    "d.is_used",
	"created_at": "d.created_at",
	"updated_at": "d.updated_at",
}

var deviceColumns = []string{"d.id", "d.serial", "d.name", "d.description", "d.is_used", "d.created_at", "d.updated_at"}

type DeviceRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error)
	Create(ctx context.Context, tx pgx.Tx, device entities.Device) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, device entities.Device) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type DeviceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDeviceRepository(storage *pgxpool.Pool, logger *zap.Logger) DeviceRepositoryInterface {
	return &DeviceRepository{storage: storage, logger: logger}
}

func scanDevice(row pgx.Row) (*entities.Device, error) {
	var d entities.Device
	if err := row.Scan(&d.ID, &d.Serial, &d.Name, &d.Description, &d.IsUsed, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, scanOne(err, "device")
	}
	d.Parts = []entities.PartRef{}
	return &d, nil
}

func (r *DeviceRepository) List(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return searchAny(b, filter.Search, "d.serial", "d.name", "d.description")
	}

	countBuilder := applySearch(psql.Select("COUNT(d.id)").From("devices AS d"))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), deviceMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("DeviceRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.Device{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(deviceColumns...).From("devices AS d"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("d.id DESC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, deviceMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	devices := make([]entities.Device, 0, filter.Limit)
	index := make(map[uint64]int)
	ids := make([]uint64, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, err
		}
		index[d.ID] = len(devices)
		ids = append(ids, d.ID)
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError(err)
	}

	parts, err := r.loadParts(ctx, r.storage, ids)
	if err != nil {
		return nil, 0, err
	}
	for deviceID, refs := range parts {
		devices[index[deviceID]].Parts = refs
	}
	return devices, total, nil
}

func (r *DeviceRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error) {
	q := pick(r.storage, tx)
	query, args, err := psql.Select(deviceColumns...).From("devices AS d").Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	device, err := scanDevice(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	parts, err := r.loadParts(ctx, q, []uint64{id})
	if err != nil {
		return nil, err
	}
	if refs, ok := parts[id]; ok {
		device.Parts = refs
	}
	return device, nil
}

func (r *DeviceRepository) loadParts(ctx context.Context, q Querier, deviceIDs []uint64) (map[uint64][]entities.PartRef, error) {
	out := make(map[uint64][]entities.PartRef)
	if len(deviceIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT dp.device_id, ap.id, ap.name, ap.decimal_num
		FROM device_parts dp
		JOIN astral_parts ap ON ap.id = dp.astral_part_id
		WHERE dp.device_id = ANY($1)
		ORDER BY ap.id`, deviceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			deviceID uint64
			ref      entities.PartRef
		)
		if err := rows.Scan(&deviceID, &ref.ID, &ref.Name, &ref.DecimalNum); err != nil {
			return nil, err
		}
		out[deviceID] = append(out[deviceID], ref)
	}
	return out, rows.Err()
}

func (r *DeviceRepository) Create(ctx context.Context, tx pgx.Tx, device entities.Device) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx,
		"INSERT INTO devices (serial, name, description) VALUES ($1, $2, $3) RETURNING id",
		device.Serial, device.Name, device.Description,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *DeviceRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, device entities.Device) error {
	tag, err := pick(r.storage, tx).Exec(ctx,
		"UPDATE devices SET serial = $1, name = $2, description = $3, updated_at = NOW() WHERE id = $4",
		device.Serial, device.Name, device.Description, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return deleteByID(ctx, pick(r.storage, tx), "devices", id)
}
