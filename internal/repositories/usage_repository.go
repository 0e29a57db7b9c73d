package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UsageRepositoryInterface хранит состав устройств и пересчитывает флаги is_used.
// Все методы работают внутри переданной транзакции.
type UsageRepositoryInterface interface {
	// LockDevice блокирует строку устройства до конца транзакции.
	LockDevice(ctx context.Context, tx pgx.Tx, deviceID uint64) error
	DevicePartIDs(ctx context.Context, tx pgx.Tx, deviceID uint64) ([]uint64, error)
	// LinkParts возвращает только реально добавленные связи.
	LinkParts(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error)
	// UnlinkParts возвращает только реально удалённые связи.
	UnlinkParts(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error)

	// Recompute* блокируют строки и выставляют is_used по фактическим связям только для переданных id.
	RecomputeAstralParts(ctx context.Context, tx pgx.Tx, ids []uint64) error
	RecomputeDevices(ctx context.Context, tx pgx.Tx, ids []uint64) error
	RecomputeMaterialParts(ctx context.Context, tx pgx.Tx, ids []uint64) error
	// RecomputeAll выравнивает все флаги по фактическим связям и возвращает число исправленных строк.
	RecomputeAll(ctx context.Context, tx pgx.Tx) (UsageRepair, error)
}

type UsageRepair struct {
	AstralParts   int64
	Devices       int64
	MaterialParts int64
}

const (
	recomputeAstralPartsSQL = `
		UPDATE astral_parts p
		SET is_used = EXISTS (SELECT 1 FROM device_parts dp WHERE dp.astral_part_id = p.id)
		WHERE p.id = ANY($1)`
	recomputeDevicesSQL = `
		UPDATE devices d
		SET is_used = EXISTS (SELECT 1 FROM operations o WHERE o.device_id = d.id)
		WHERE d.id = ANY($1)`
	recomputeMaterialPartsSQL = `
		UPDATE material_parts m
		SET is_used = EXISTS (SELECT 1 FROM operations o WHERE o.material_part_id = m.id)
		WHERE m.id = ANY($1)`

	repairAstralPartsSQL = `
		UPDATE astral_parts p
		SET is_used = NOT p.is_used, updated_at = NOW()
		WHERE p.is_used <> EXISTS (SELECT 1 FROM device_parts dp WHERE dp.astral_part_id = p.id)`
	repairDevicesSQL = `
		UPDATE devices d
		SET is_used = NOT d.is_used, updated_at = NOW()
		WHERE d.is_used <> EXISTS (SELECT 1 FROM operations o WHERE o.device_id = d.id)`
	repairMaterialPartsSQL = `
		UPDATE material_parts m
		SET is_used = NOT m.is_used, updated_at = NOW()
		WHERE m.is_used <> EXISTS (SELECT 1 FROM operations o WHERE o.material_part_id = m.id)`
)

type UsageRepository struct {
	logger *zap.Logger
}

func NewUsageRepository(logger *zap.Logger) UsageRepositoryInterface {
	return &UsageRepository{logger: logger}
}

func (r *UsageRepository) LockDevice(ctx context.Context, tx pgx.Tx, deviceID uint64) error {
	var id uint64
	err := tx.QueryRow(ctx, "SELECT id FROM devices WHERE id = $1 FOR UPDATE", deviceID).Scan(&id)
	return mapPgError(err)
}

func (r *UsageRepository) DevicePartIDs(ctx context.Context, tx pgx.Tx, deviceID uint64) ([]uint64, error) {
	rows, err := tx.Query(ctx, "SELECT astral_part_id FROM device_parts WHERE device_id = $1 ORDER BY astral_part_id", deviceID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *UsageRepository) LinkParts(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	if len(partIDs) == 0 {
		return nil, nil
	}
	rows, err := tx.Query(ctx, `
		INSERT INTO device_parts (device_id, astral_part_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
		RETURNING astral_part_id`, deviceID, partIDs)
	if err != nil {
		return nil, mapPgError(err)
	}
	linked, err := pgx.CollectRows(rows, pgx.RowTo[uint64])
	if err != nil {
		return nil, mapPgError(err)
	}
	return linked, nil
}

func (r *UsageRepository) UnlinkParts(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	if len(partIDs) == 0 {
		return nil, nil
	}
	rows, err := tx.Query(ctx, `
		DELETE FROM device_parts
		WHERE device_id = $1 AND astral_part_id = ANY($2)
		RETURNING astral_part_id`, deviceID, partIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *UsageRepository) RecomputeAstralParts(ctx context.Context, tx pgx.Tx, ids []uint64) error {
	return r.recompute(ctx, tx, "astral_parts", recomputeAstralPartsSQL, ids)
}

func (r *UsageRepository) RecomputeDevices(ctx context.Context, tx pgx.Tx, ids []uint64) error {
	return r.recompute(ctx, tx, "devices", recomputeDevicesSQL, ids)
}

func (r *UsageRepository) RecomputeMaterialParts(ctx context.Context, tx pgx.Tx, ids []uint64) error {
	return r.recompute(ctx, tx, "material_parts", recomputeMaterialPartsSQL, ids)
}

func (r *UsageRepository) recompute(ctx context.Context, tx pgx.Tx, table, query string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	// Блокировка отдельным запросом: UPDATE ниже получит снимок, в котором видны коммиты конкурентов.
	lock := fmt.Sprintf("SELECT id FROM %s WHERE id = ANY($1) ORDER BY id FOR UPDATE", table)
	if _, err := tx.Exec(ctx, lock, ids); err != nil {
		return fmt.Errorf("блокировка строк %s: %w", table, err)
	}
	if _, err := tx.Exec(ctx, query, ids); err != nil {
		r.logger.Error("UsageRepository: ошибка пересчёта is_used",
			zap.String("table", table), zap.Uint64s("ids", ids), zap.Error(err))
		return fmt.Errorf("пересчёт is_used в %s: %w", table, err)
	}
	return nil
}

func (r *UsageRepository) RecomputeAll(ctx context.Context, tx pgx.Tx) (UsageRepair, error) {
	var report UsageRepair
	steps := []struct {
		query string
		dst   *int64
	}{
		{repairAstralPartsSQL, &report.AstralParts},
		{repairDevicesSQL, &report.Devices},
		{repairMaterialPartsSQL, &report.MaterialParts},
	}
	for _, s := range steps {
		tag, err := tx.Exec(ctx, s.query)
		if err != nil {
			return UsageRepair{}, err
		}
		*s.dst = tag.RowsAffected()
	}
	return report, nil
}
