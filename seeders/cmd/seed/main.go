package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"inventory-system/migrations"
	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	applogger "inventory-system/pkg/logger"
	"inventory-system/seeders"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "Применить миграции перед наполнением")
	runCore := flag.Bool("core", false, "Наполнить базовые справочники (типы, производители, группы, статусы, склады)")
	runAdmin := flag.Bool("admin", false, "Создать или обновить администратора из ADMIN_USERNAME / ADMIN_PASSWORD")
	runSequences := flag.Bool("sequences", false, "Сбросить последовательности id на MAX(id)")
	runRecompute := flag.Bool("recompute", false, "Пересчитать флаги is_used")
	runAll := flag.Bool("all", false, "Запустить всё (эквивалентно -migrate -core -admin -sequences -recompute)")
	flag.Parse()

	if !*runMigrate && !*runCore && !*runAdmin && !*runSequences && !*runRecompute && !*runAll {
		fmt.Fprintln(os.Stderr, "Не выбран ни один сидер для запуска. Доступные флаги:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nПример: go run ./seeders/cmd/seed -all")
		os.Exit(2)
	}

	logger := applogger.NewLogger().Named("seed")
	defer logger.Sync()

	ctx := context.Background()
	cfg := config.New()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	steps := []struct {
		enabled bool
		name    string
		run     func() error
	}{
		{*runAll || *runMigrate, "migrate", func() error { return postgresql.Migrate(ctx, dbPool, migrations.FS, logger) }},
		{*runAll || *runCore, "core", func() error { return seeders.SeedCoreDictionaries(ctx, dbPool, logger) }},
		{*runAll || *runAdmin, "admin", func() error { return seeders.SeedAdmin(ctx, dbPool, cfg, logger) }},
		{*runAll || *runSequences, "sequences", func() error { return seeders.FixSequences(ctx, dbPool, logger) }},
		{*runAll || *runRecompute, "recompute", func() error { return seeders.RecomputeUsage(ctx, dbPool, logger) }},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		logger.Info("▶️  Запуск шага", zap.String("step", step.name))
		if err := step.run(); err != nil {
			logger.Fatal("❌ Шаг завершился с ошибкой", zap.String("step", step.name), zap.Error(err))
		}
	}

	logger.Info("✅ Все указанные операции сидирования успешно завершены")
}
