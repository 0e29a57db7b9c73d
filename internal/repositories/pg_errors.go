package repositories

import (
	"errors"
	"fmt"

	apperrors "inventory-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// mapPgError переводит ошибки pgx в доменные: нет строки - ErrNotFound,
// нарушение ограничения - IntegrityError с именем ограничения,
// значение фильтра неверного типа - ErrBadRequest.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return apperrors.NewIntegrityError(pgErr.ConstraintName, "значение уже существует")
	case pgNotNullViolation:
		return apperrors.NewIntegrityError(pgErr.ColumnName, "обязательное поле не заполнено")
	case pgForeignKeyViolation:
		return apperrors.NewIntegrityError(pgErr.ConstraintName, "ссылка на несуществующую или используемую запись")
	case pgCheckViolation:
		return apperrors.NewIntegrityError(pgErr.ConstraintName, "значение не прошло проверку")
	case pgInvalidText:
		return fmt.Errorf("%w: %s", apperrors.ErrBadRequest, pgErr.Message)
	}
	return fmt.Errorf("ошибка базы данных %s: %w", pgErr.Code, err)
}
