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

var astralRevisionMap = map[string]string{
	"id":           "r.id",
	"name":         "r.name",
	"parent_id":    "r.parent_id",
	"release_date": "r.release_date",
	"created_at":   "r.created_at",
}

var astralRevisionColumns = []string{
	"r.id", "r.name", "r.description", "r.parent_id", "r.release_date", "r.created_at", "r.updated_at", "pr.name",
}

type AstralRevisionRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.AstralRevision, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AstralRevision, error)
	Create(ctx context.Context, tx pgx.Tx, rev entities.AstralRevision) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, rev entities.AstralRevision) error
	// SetParts заменяет состав ревизии целиком.
	SetParts(ctx context.Context, tx pgx.Tx, id uint64, partIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
}

type AstralRevisionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAstralRevisionRepository(storage *pgxpool.Pool, logger *zap.Logger) AstralRevisionRepositoryInterface {
	return &AstralRevisionRepository{storage: storage, logger: logger}
}

func scanAstralRevision(row pgx.Row) (*entities.AstralRevision, error) {
	var (
		rev         entities.AstralRevision
		parentID    sql.NullInt64
		releaseDate sql.NullTime
		parentName  sql.NullString
	)
	err := row.Scan(&rev.ID, &rev.Name, &rev.Description, &parentID, &releaseDate, &rev.CreatedAt, &rev.UpdatedAt, &parentName)
	if err != nil {
		return nil, scanOne(err, "astral_revision")
	}
	rev.ParentID = nullUint64(parentID)
	rev.ParentName = nullString(parentName)
	if releaseDate.Valid {
		rev.ReleaseDate = &releaseDate.Time
	}
	rev.Parts = []entities.PartRef{}
	return &rev, nil
}

func astralRevisionFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("astral_revisions AS r").LeftJoin("astral_revisions pr ON pr.id = r.parent_id")
}

func (r *AstralRevisionRepository) List(ctx context.Context, filter types.Filter) ([]entities.AstralRevision, uint64, error) {
	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search == "" {
			return b
		}
		pat := db.ContainsPattern(filter.Search)
		return b.Where(sq.Or{
			sq.ILike{"r.name": pat},
			sq.Expr(`EXISTS (
				SELECT 1 FROM astral_revision_parts rp
				JOIN astral_parts ap ON ap.id = rp.astral_part_id
				WHERE rp.astral_revision_id = r.id AND ap.name ILIKE ?)`, pat),
		})
	}

	countBuilder := applySearch(astralRevisionFrom(psql.Select("COUNT(r.id)")))
	countBuilder = db.ApplyListParams(countBuilder, db.ForCount(filter), astralRevisionMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		r.logger.Error("AstralRevisionRepository.List: ошибка подсчёта", zap.Error(err))
		return nil, 0, mapPgError(err)
	}
	if total == 0 {
		return []entities.AstralRevision{}, 0, nil
	}

	baseBuilder := applySearch(astralRevisionFrom(psql.Select(astralRevisionColumns...)))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("r.release_date DESC NULLS LAST", "r.id DESC")
	}
	baseBuilder = db.ApplyListParams(baseBuilder, filter, astralRevisionMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapPgError(err)
	}
	defer rows.Close()

	revisions := make([]entities.AstralRevision, 0, filter.Limit)
	index := make(map[uint64]int)
	ids := make([]uint64, 0)
	for rows.Next() {
		rev, err := scanAstralRevision(rows)
		if err != nil {
			return nil, 0, err
		}
		index[rev.ID] = len(revisions)
		ids = append(ids, rev.ID)
		revisions = append(revisions, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPgError(err)
	}

	parts, err := r.loadParts(ctx, r.storage, ids)
	if err != nil {
		return nil, 0, err
	}
	for revID, refs := range parts {
		revisions[index[revID]].Parts = refs
	}
	return revisions, total, nil
}

func (r *AstralRevisionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.AstralRevision, error) {
	q := pick(r.storage, tx)
	query, args, err := astralRevisionFrom(psql.Select(astralRevisionColumns...)).Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rev, err := scanAstralRevision(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	parts, err := r.loadParts(ctx, q, []uint64{id})
	if err != nil {
		return nil, err
	}
	if refs, ok := parts[id]; ok {
		rev.Parts = refs
	}
	return rev, nil
}

func (r *AstralRevisionRepository) loadParts(ctx context.Context, q Querier, revisionIDs []uint64) (map[uint64][]entities.PartRef, error) {
	out := make(map[uint64][]entities.PartRef)
	if len(revisionIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT rp.astral_revision_id, ap.id, ap.name, ap.decimal_num
		FROM astral_revision_parts rp
		JOIN astral_parts ap ON ap.id = rp.astral_part_id
		WHERE rp.astral_revision_id = ANY($1)
		ORDER BY ap.id`, revisionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			revID uint64
			ref   entities.PartRef
		)
		if err := rows.Scan(&revID, &ref.ID, &ref.Name, &ref.DecimalNum); err != nil {
			return nil, err
		}
		out[revID] = append(out[revID], ref)
	}
	return out, rows.Err()
}

func (r *AstralRevisionRepository) Create(ctx context.Context, tx pgx.Tx, rev entities.AstralRevision) (uint64, error) {
	var id uint64
	err := pick(r.storage, tx).QueryRow(ctx, `
		INSERT INTO astral_revisions (name, description, parent_id, release_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		rev.Name, rev.Description, rev.ParentID, rev.ReleaseDate,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *AstralRevisionRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, rev entities.AstralRevision) error {
	tag, err := pick(r.storage, tx).Exec(ctx, `
		UPDATE astral_revisions
		SET name = $1, description = $2, parent_id = $3, release_date = $4, updated_at = NOW()
		WHERE id = $5`,
		rev.Name, rev.Description, rev.ParentID, rev.ReleaseDate, id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AstralRevisionRepository) SetParts(ctx context.Context, tx pgx.Tx, id uint64, partIDs []uint64) error {
	q := pick(r.storage, tx)
	if _, err := q.Exec(ctx, "DELETE FROM astral_revision_parts WHERE astral_revision_id = $1", id); err != nil {
		return err
	}
	if len(partIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		INSERT INTO astral_revision_parts (astral_revision_id, astral_part_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, id, partIDs)
	return mapPgError(err)
}

func (r *AstralRevisionRepository) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.storage, "astral_revisions", id)
}
