package seeders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/utils"
)

// SeedAdmin создаёт или обновляет учётную запись администратора из ADMIN_USERNAME / ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		return errors.New("ADMIN_USERNAME и ADMIN_PASSWORD должны быть заданы")
	}

	hash, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	repo := repositories.NewAccountRepository(db, logger)
	id, err := repo.Upsert(ctx, entities.Account{
		Username:     cfg.Admin.Username,
		PasswordHash: hash,
		FirstName:    "Администратор",
		UserType:     entities.UserTypeAdmin,
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	logger.Info("SeedAdmin: администратор готов", zap.Uint64("id", id), zap.String("username", cfg.Admin.Username))
	return nil
}
