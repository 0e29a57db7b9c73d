package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "inventory-system/pkg/errors"
)

func TestMapPgError(t *testing.T) {
	assert.NoError(t, mapPgError(nil))
	assert.ErrorIs(t, mapPgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), apperrors.ErrNotFound)

	err := mapPgError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "astral_parts_decimal_num_key"})
	var integrityErr *apperrors.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "astral_parts_decimal_num_key", integrityErr.Constraint)
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)

	err = mapPgError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "astral_parts_parent_id_fkey"})
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)

	err = mapPgError(&pgconn.PgError{Code: pgInvalidText, Message: `invalid input syntax for type bigint: "abc"`})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.NotErrorIs(t, err, apperrors.ErrIntegrityViolation)

	other := errors.New("conn reset")
	assert.Equal(t, other, mapPgError(other))

	err = mapPgError(&pgconn.PgError{Code: "40P01"})
	assert.Contains(t, err.Error(), "40P01")
}

func TestSearchAnyEscapesWildcards(t *testing.T) {
	query, args, err := searchAny(psql.Select("p.id").From("astral_parts p"), "50%_off", "p.name", "p.decimal_num").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM astral_parts p WHERE (p.name ILIKE $1 OR p.decimal_num ILIKE $2)", query)
	assert.Equal(t, []interface{}{`%50\%\_off%`, `%50\%\_off%`}, args)

	query, _, err = searchAny(psql.Select("p.id").From("astral_parts p"), "", "p.name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM astral_parts p", query)
}
