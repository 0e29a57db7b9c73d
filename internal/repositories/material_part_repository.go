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

var materialPartMap = map[string]string{
	"id":                     "m.id",
	"serial":                 "m.serial",
	"astral_revision_id":     "m.astral_revision_id",
	"astral_manufacturer_id": "m.astral_manufacturer_id",
	"manufacturer_id":        "m.astral_manufacturer_id",
	"astral_year_id":         "m.astral_year_id",
	"year":                   "y.year",
	"parent_id":              "m.parent_id",
	"is_used":                "m.is_used",
	"created_at":             "m.created_at",
}

// Узел и тип берутся из первого (по id) каталожного узла ревизии.
var materialPartColumns = []string{
	"m.id", "m.serial", "m.astral_revision_id", "m.astral_manufacturer_id", "m.astral_year_id", "m.parent_id", "m.is_used",
	"m.created_at", "m.updated_at",
	"COALESCE(r.name, '')", "COALESCE(mf.name, '')", "COALESCE(y.year, 0)", "pm.serial",
	"fp.name", "fp.type_name",
}

const materialPartFirstAstral = `LATERAL (
	SELECT ap.name, at.name AS type_name
	FROM astral_revision_parts rp
	JOIN astral_parts ap ON ap.id = rp.astral_part_id
	LEFT JOIN astral_variants av ON av.id = ap.astral_variant_id
	LEFT JOIN astral_types at ON at.id = av.astral_type_id
	WHERE rp.astral_revision_id = m.astral_revision_id
	ORDER BY ap.id
	LIMIT 1
) fp ON TRUE`

type MaterialPartRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.MaterialPart, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialPart, error)
	Create(ctx context.Context, tx pgx.Tx, part entities.MaterialPart) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, part entities.MaterialPart) error
	Delete(ctx context.Context, id uint64) error
}

type MaterialPartRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaterialPartRepository(storage *pgxpool.Pool, logger *zap.Logger) MaterialPartRepositoryInterface {
	return &MaterialPartRepository{storage: storage, logger: logger}
}

func scanMaterialPart(row pgx.Row) (*entities.MaterialPart, error) {
	var (
		m                            entities.MaterialPart
		parentID                     sql.NullInt64
		parentSerial, part, typeName sql.NullString
	)
	err := row.Scan(
		&m.ID, &m.Serial, &m.AstralRevisionID, &m.AstralManufacturerID, &m.AstralYearID, &parentID, &m.IsUsed,
		&m.CreatedAt, &m.UpdatedAt,
		&m.RevisionName, &m.ManufacturerName, &m.Year, &parentSerial,
		&part, &typeName,
	)
	if err != nil {
		return nil, scanOne(err, "material_part")
	}
	m.ParentID = nullUint64(parentID)
	m.ParentSerial = nullString(parentSerial)
	m.PartName = nullString(part)
	m.TypeName = nullString(typeName)
	return &m, nil
}

func materialPartFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("material_parts AS m").
		LeftJoin("astral_revisions r ON r.id = m.astral_revision_id").
		LeftJoin("astral_manufacturers mf ON mf.id = m.astral_manufacturer_id").
		LeftJoin("astral_years y ON y.id = m.astral_year_id").
		LeftJoin("material_parts pm ON pm.id = m.parent_id").
		LeftJoin(materialPartFirstAstral)
}

func (r *MaterialPartRepository) List(ctx context.Context, filter types.Filter) ([]entities.MaterialPart, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search == "" {
			return b
		}
		pat := db.ContainsPattern(filter.Search)
		return b.Where(sq.Or{
			sq.ILike{"m.serial": pat},
			sq.ILike{"r.name": pat},
			sq.Expr(`EXISTS (
				SELECT 1 FROM astral_revision_parts rp
				JOIN astral_parts ap ON ap.id = rp.astral_part_id
				WHERE rp.astral_revision_id = m.astral_revision_id AND ap.name ILIKE ?)`, pat),
		})
	}

	countBuilder := applySearch(materialPartFrom(psql.Select("COUNT(m.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), materialPartMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("MaterialPartRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.MaterialPart{}, 0, nil
	}

	baseBuilder := applySearch(materialPartFrom(psql.Select(materialPartColumns...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("m.id DESC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, materialPartMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	parts := make([]entities.MaterialPart, 0, filter.Limit)
	for rows.Next() {
		m, err := scanMaterialPart(rows)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, *m)
	}
	return parts, total, mapPgError(rows.Err())
}

func (r *MaterialPartRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialPart, error) {
	query, args, err := materialPartFrom(psql.Select(materialPartColumns...)).Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanMaterialPart(pick(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *MaterialPartRepository) Create(ctx context.Context, tx pgx.Tx, part entities.MaterialPart) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO material_parts (serial, astral_revision_id, astral_manufacturer_id, astral_year_id, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		part.Serial, part.AstralRevisionID, part.AstralManufacturerID, part.AstralYearID, part.ParentID,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *MaterialPartRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, part entities.MaterialPart) error {
	tag, err := pick(r.storage, tx).Exec(ctx, `
		UPDATE material_parts
		SET serial = $1, astral_revision_id = $2, astral_manufacturer_id = $3, astral_year_id = $4,
		    parent_id = $5, updated_at = NOW()
		WHERE id = $6`,
		part.Serial, part.AstralRevisionID, part.AstralManufacturerID, part.AstralYearID, part.ParentID, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaterialPartRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, "material_parts", id)
}
