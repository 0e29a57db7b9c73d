package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/eventbus"
)

// FixSequences выравнивает последовательность id каждой таблицы по MAX(id).
// Нужна после импорта данных с явными id.
func FixSequences(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	for _, table := range sequenceTables {
		var value int64
		err := db.QueryRow(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1),
			               (SELECT MAX(id) FROM %[1]s) IS NOT NULL)`, table),
		).Scan(&value)
		if err != nil {
			return fmt.Errorf("не удалось сбросить последовательность %s: %w", table, err)
		}
		logger.Info("FixSequences: последовательность сброшена", zap.String("table", table), zap.Int64("value", value))
	}
	return nil
}

// RecomputeUsage пересчитывает флаги is_used по текущим связям и журналу операций.
func RecomputeUsage(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	bus := eventbus.New(logger)
	usage := services.NewUsageService(
		repositories.NewTxManager(db),
		repositories.NewUsageRepository(logger),
		repositories.NewDeviceRepository(db, logger),
		repositories.NewOperationRepository(db, logger),
		bus,
		logger,
	)

	result, err := usage.RecomputeAll(ctx)
	if err != nil {
		return err
	}
	logger.Info("RecomputeUsage: флаги пересчитаны",
		zap.Int64("astral_parts", result.AstralParts),
		zap.Int64("devices", result.Devices),
		zap.Int64("material_parts", result.MaterialParts),
	)
	return bus.Drain(ctx)
}
