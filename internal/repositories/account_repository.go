package repositories

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
)

const accountFields = "id, username, password_hash, first_name, last_name, user_type, is_staff, is_superuser, is_active, last_login, date_joined"

type AccountRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Account, error)
	FindByUsername(ctx context.Context, username string) (*entities.Account, error)
	UpdateLastLogin(ctx context.Context, id uint64) error
	// Upsert создаёт учётную запись или обновляет пароль и роль существующей с тем же username.
	Upsert(ctx context.Context, account entities.Account) (uint64, error)
}

type AccountRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAccountRepository(storage *pgxpool.Pool, logger *zap.Logger) AccountRepositoryInterface {
	return &AccountRepository{storage: storage, logger: logger}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var (
		a         entities.Account
		lastLogin sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.FirstName, &a.LastName, &a.UserType,
		&a.IsStaff, &a.IsSuperuser, &a.IsActive, &lastLogin, &a.DateJoined)
	if err != nil {
		return nil, scanOne(err, "account")
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint64) (*entities.Account, error) {
	return scanAccount(r.storage.QueryRow(ctx, "SELECT "+accountFields+" FROM accounts WHERE id = $1", id))
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*entities.Account, error) {
	return scanAccount(r.storage.QueryRow(ctx, "SELECT "+accountFields+" FROM accounts WHERE username = $1", username))
}

func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id uint64) error {
	_, err := r.storage.Exec(ctx, "UPDATE accounts SET last_login = NOW() WHERE id = $1", id)
	return err
}

func (r *AccountRepository) Upsert(ctx context.Context, a entities.Account) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO accounts (username, password_hash, first_name, last_name, user_type, is_staff, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, user_type = EXCLUDED.user_type,
		    is_staff = EXCLUDED.is_staff, is_superuser = EXCLUDED.is_superuser, is_active = EXCLUDED.is_active
		RETURNING id`,
		a.Username, a.PasswordHash, a.FirstName, a.LastName, a.UserType, a.IsStaff, a.IsSuperuser, a.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}
