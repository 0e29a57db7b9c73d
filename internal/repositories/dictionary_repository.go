package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	db "inventory-system/internal/infrastructure/bd"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// DictionarySpec описывает плоский справочник: таблицу, колонки записи и выборки, поиск и сортировку.
type DictionarySpec[T any] struct {
	Name string
	// Table - таблица с алиасом "t".
	Table string
	// Columns - записываемые колонки в порядке Values.
	Columns []string
	// Select - колонки выборки в порядке Scan.
	Select  []string
	Joins   []string
	Search  []string
	Fields  map[string]string
	OrderBy string
	Scan    func(row pgx.Row) (*T, error)
	Values  func(item T) []interface{}
}

type DictionaryRepositoryInterface[T any] interface {
	List(ctx context.Context, filter types.Filter) ([]T, uint64, error)
	FindByID(ctx context.Context, id uint64) (*T, error)
	Create(ctx context.Context, item T) (*T, error)
	Update(ctx context.Context, id uint64, item T) (*T, error)
	Delete(ctx context.Context, id uint64) error
}

type DictionaryRepository[T any] struct {
	storage *pgxpool.Pool
	spec    DictionarySpec[T]
	logger  *zap.Logger
}

func NewDictionaryRepository[T any](storage *pgxpool.Pool, spec DictionarySpec[T], logger *zap.Logger) DictionaryRepositoryInterface[T] {
	return &DictionaryRepository[T]{storage: storage, spec: spec, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *DictionaryRepository[T]) from(b sq.SelectBuilder) sq.SelectBuilder {
	b = b.From(r.spec.Table + " AS t")
	for _, j := range r.spec.Joins {
		b = b.LeftJoin(j)
	}
	return b
}

func (r *DictionaryRepository[T]) List(ctx context.Context, filter types.Filter) ([]T, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return searchAny(b, filter.Search, r.spec.Search...)
	}

	countBuilder := applySearch(r.from(psql.Select("COUNT(t.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), r.spec.Fields)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("DictionaryRepository: ошибка подсчёта", zap.String("dictionary", r.spec.Name), zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []T{}, 0, nil
	}

	baseBuilder := applySearch(r.from(psql.Select(r.spec.Select...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy(r.spec.OrderBy)
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, r.spec.Fields)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := r.spec.Scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, mapPgError(rows.Err())
}

func (r *DictionaryRepository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	query, args, err := r.from(psql.Select(r.spec.Select...)).Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return r.spec.Scan(r.storage.QueryRow(ctx, query, args...))
}

func (r *DictionaryRepository[T]) Create(ctx context.Context, item T) (*T, error) {
	query, args, err := psql.Insert(r.spec.Table).
		Columns(r.spec.Columns...).
		Values(r.spec.Values(item)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Warn("DictionaryRepository: ошибка создания", zap.String("dictionary", r.spec.Name), zap.Error(err))
		return nil, mapPgError(err)
	}
	return r.FindByID(ctx, id)
}

func (r *DictionaryRepository[T]) Update(ctx context.Context, id uint64, item T) (*T, error) {
	values := r.spec.Values(item)
	set := make(map[string]interface{}, len(values)+1)
	for i, col := range r.spec.Columns {
		set[col] = values[i]
	}
	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := psql.Update(r.spec.Table).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	tag, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *DictionaryRepository[T]) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, r.spec.Table, id)
}

// searchAny добавляет ILIKE по любой из колонок.
func searchAny(b sq.SelectBuilder, search string, columns ...string) sq.SelectBuilder {
	if search == "" || len(columns) == 0 {
		return b
	}
	pat := db.ContainsPattern(search)
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pat})
	}
	return b.Where(or)
}

func deleteByID(ctx context.Context, q Querier, table string, id uint64) error {
	tag, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanOne переводит pgx.ErrNoRows в ErrNotFound и оборачивает прочие ошибки сканирования.
func scanOne(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("ошибка сканирования %s: %w", what, err)
}
