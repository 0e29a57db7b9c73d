package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedCodedDictionary(ctx context.Context, tx pgx.Tx, table string, rows []namedRow) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (name, code, description) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`, table)
	for _, row := range rows {
		if _, err := tx.Exec(ctx, query, row.Name, row.Code, row.Description); err != nil {
			return fmt.Errorf("не удалось вставить %q в %s: %w", row.Code, table, err)
		}
	}
	return nil
}

// seedNamedDictionary вставляет строки, которых ещё нет: у таблиц нет уникального ключа по имени.
func seedNamedDictionary(ctx context.Context, tx pgx.Tx, table string, names []string) error {
	query := fmt.Sprintf(
		`INSERT INTO %[1]s (name) SELECT $1::varchar WHERE NOT EXISTS (SELECT 1 FROM %[1]s WHERE name = $1)`, table)
	for _, name := range names {
		if _, err := tx.Exec(ctx, query, name); err != nil {
			return fmt.Errorf("не удалось вставить %q в %s: %w", name, table, err)
		}
	}
	return nil
}

func seedOperationTypes(ctx context.Context, tx pgx.Tx) error {
	const query = `
		INSERT INTO material_operation_types (name, material_group_id)
		SELECT $1::varchar, g.id FROM material_groups g
		WHERE g.name = $2
		  AND NOT EXISTS (
		      SELECT 1 FROM material_operation_types t WHERE t.name = $1 AND t.material_group_id = g.id)
		LIMIT 1`
	for _, row := range materialOperationTypesData {
		if _, err := tx.Exec(ctx, query, row.Name, row.Group); err != nil {
			return fmt.Errorf("не удалось вставить тип операции %q: %w", row.Name, err)
		}
	}
	return nil
}

// SeedCoreDictionaries наполняет справочники, без которых нельзя завести ни одной операции.
func SeedCoreDictionaries(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("SeedCoreDictionaries: наполнение базовых справочников")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	steps := []struct {
		name string
		run  func() error
	}{
		{"astral_types", func() error { return seedCodedDictionary(ctx, tx, "astral_types", astralTypesData) }},
		{"astral_manufacturers", func() error {
			return seedCodedDictionary(ctx, tx, "astral_manufacturers", astralManufacturersData)
		}},
		{"material_groups", func() error { return seedNamedDictionary(ctx, tx, "material_groups", materialGroupsData) }},
		{"material_operation_types", func() error { return seedOperationTypes(ctx, tx) }},
		{"material_statuses", func() error { return seedNamedDictionary(ctx, tx, "material_statuses", materialStatusesData) }},
		{"material_warehouses", func() error {
			return seedNamedDictionary(ctx, tx, "material_warehouses", materialWarehousesData)
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return err
		}
		logger.Debug("SeedCoreDictionaries: справочник проверен", zap.String("table", step.name))
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Info("SeedCoreDictionaries: базовые справочники наполнены")
	return nil
}
