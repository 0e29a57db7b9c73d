package repositories

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	db "inventory-system/internal/infrastructure/bd"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

var astralPartMap = map[string]string{
	"id":                "p.id",
	"name":              "p.name",
	"decimal_num":       "p.decimal_num",
	"astral_variant_id": "p.astral_variant_id",
	"astral_type_id":    "av.astral_type_id",
	"parent_id":         "p.parent_id",
	"is_used":           "p.is_used",
	"created_at":        "p.created_at",
	"updated_at":        "p.updated_at",
}

var astralPartColumns = []string{
	"p.id", "p.name", "p.decimal_num", "p.description", "p.astral_variant_id", "p.parent_id", "p.is_used",
	"p.created_at", "p.updated_at",
	"COALESCE(av.name, '')", "COALESCE(at.name, '')", "pp.name",
}

type AstralPartRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.AstralPart, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AstralPart, error)
	Create(ctx context.Context, tx pgx.Tx, part entities.AstralPart) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, part entities.AstralPart) error
	Delete(ctx context.Context, id uint64) error
	// CountInstances считает материальные узлы, чья ревизия включает данный узел.
	CountInstances(ctx context.Context, id uint64) (uint64, error)
}

type AstralPartRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAstralPartRepository(storage *pgxpool.Pool, logger *zap.Logger) AstralPartRepositoryInterface {
	return &AstralPartRepository{storage: storage, logger: logger}
}

func scanAstralPart(row pgx.Row) (*entities.AstralPart, error) {
	var (
		p          entities.AstralPart
		parentID   sql.NullInt64
		parentName sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.DecimalNum, &p.Description, &p.AstralVariantID, &parentID, &p.IsUsed,
		&p.CreatedAt, &p.UpdatedAt,
		&p.AstralVariantName, &p.AstralTypeName, &parentName,
	)
	if err != nil {
		return nil, scanOne(err, "astral_part")
	}
	p.ParentID = nullUint64(parentID)
	p.ParentName = nullString(parentName)
	return &p, nil
}

func astralPartFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("astral_parts AS p").
		LeftJoin("astral_variants av ON av.id = p.astral_variant_id").
		LeftJoin("astral_types at ON at.id = av.astral_type_id").
		LeftJoin("astral_parts pp ON pp.id = p.parent_id")
}

func (r *AstralPartRepository) List(ctx context.Context, filter types.Filter) ([]entities.AstralPart, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return searchAny(b, filter.Search, "p.name", "p.decimal_num")
	}

	countBuilder := applySearch(astralPartFrom(psql.Select("COUNT(p.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), astralPartMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("AstralPartRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.AstralPart{}, 0, nil
	}

	baseBuilder := applySearch(astralPartFrom(psql.Select(astralPartColumns...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("p.name ASC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, astralPartMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	parts := make([]entities.AstralPart, 0, filter.Limit)
	for rows.Next() {
		part, err := scanAstralPart(rows)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, *part)
	}
	return parts, total, mapPgError(rows.Err())
}

func (r *AstralPartRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AstralPart, error) {
	query, args, err := astralPartFrom(psql.Select(astralPartColumns...)).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAstralPart(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *AstralPartRepository) Create(ctx context.Context, tx pgx.Tx, part entities.AstralPart) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO astral_parts (name, decimal_num, description, astral_variant_id, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		part.Name, part.DecimalNum, part.Description, part.AstralVariantID, part.ParentID,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Update не трогает is_used: флаг меняет только пересчёт.
func (r *AstralPartRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, part entities.AstralPart) error {
	tag, err := pick(r.storage, tx).Exec(ctx, `
		UPDATE astral_parts
		SET name = $1, decimal_num = $2, description = $3, astral_variant_id = $4, parent_id = $5, updated_at = NOW()
		WHERE id = $6`,
		part.Name, part.DecimalNum, part.Description, part.AstralVariantID, part.ParentID, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AstralPartRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, "astral_parts", id)
}

func (r *AstralPartRepository) CountInstances(ctx context.Context, id uint64) (uint64, error) {
	var n uint64
	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(DISTINCT m.id)
		FROM material_parts m
		JOIN astral_revision_parts rp ON rp.astral_revision_id = m.astral_revision_id
		WHERE rp.astral_part_id = $1`, id).Scan(&n)
	return n, err
}
