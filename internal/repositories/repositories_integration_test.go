package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/hierarchy"
	"inventory-system/migrations"
	"inventory-system/pkg/database/postgresql"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// RepositoriesSuite работает с настоящей БД и запускается только при заданном TEST_DATABASE_URL.
type RepositoriesSuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	tx        TxManagerInterface
	parts     AstralPartRepositoryInterface
	devices   DeviceRepositoryInterface
	usage     UsageRepositoryInterface
	hierarchy HierarchyRepositoryInterface
	variantID uint64
}

func TestRepositoriesSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	suite.Run(t, new(RepositoriesSuite))
}

func (s *RepositoriesSuite) SetupSuite() {
	ctx := context.Background()
	logger := zap.NewNop()

	pool, err := postgresql.ConnectDB(ctx, os.Getenv("TEST_DATABASE_URL"), logger)
	s.Require().NoError(err)
	s.Require().NoError(postgresql.Migrate(ctx, pool, migrations.FS, logger))

	s.pool = pool
	s.tx = NewTxManager(pool)
	s.parts = NewAstralPartRepository(pool, logger)
	s.devices = NewDeviceRepository(pool, logger)
	s.usage = NewUsageRepository(logger)
	s.hierarchy = NewHierarchyRepository(pool, logger)
}

func (s *RepositoriesSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *RepositoriesSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE operations, material_parts, device_parts, devices,
		astral_revision_parts, astral_revisions, astral_parts, astral_years, astral_variants,
		astral_types, astral_manufacturers, material_warehouses, material_statuses,
		material_users, material_operation_types, material_groups, accounts RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	logger := zap.NewNop()
	astralType, err := NewDictionaryRepository(s.pool, AstralTypeSpec(), logger).
		Create(ctx, entities.AstralType{Name: "Блок", Code: "block"})
	s.Require().NoError(err)
	variant, err := NewDictionaryRepository(s.pool, AstralVariantSpec(), logger).
		Create(ctx, entities.AstralVariant{Name: "Базовый", Code: "base", AstralTypeID: astralType.ID})
	s.Require().NoError(err)
	s.variantID = variant.ID
}

func (s *RepositoriesSuite) part(name string, parent *uint64) uint64 {
	id, err := s.parts.Create(context.Background(), nil, entities.AstralPart{
		Name: name, DecimalNum: "АБВГ." + name, AstralVariantID: s.variantID, ParentID: parent,
	})
	s.Require().NoError(err)
	return id
}

func (s *RepositoriesSuite) TestLinkAndRecomputeAstralParts() {
	t := s.T()
	ctx := context.Background()

	p1 := s.part("p1", nil)
	p2 := s.part("p2", nil)
	deviceID, err := s.devices.Create(ctx, nil, entities.Device{Serial: "SN-1"})
	require.NoError(t, err)

	err = s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		require.NoError(t, s.usage.LockDevice(ctx, tx, deviceID))
		linked, err := s.usage.LinkParts(ctx, tx, deviceID, []uint64{p1, p2, p1})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint64{p1, p2}, linked)

		again, err := s.usage.LinkParts(ctx, tx, deviceID, []uint64{p1})
		require.NoError(t, err)
		assert.Empty(t, again)

		return s.usage.RecomputeAstralParts(ctx, tx, linked)
	})
	require.NoError(t, err)

	part, err := s.parts.FindByID(ctx, nil, p1)
	require.NoError(t, err)
	assert.True(t, part.IsUsed)

	err = s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		removed, err := s.usage.UnlinkParts(ctx, tx, deviceID, []uint64{p1})
		require.NoError(t, err)
		assert.Equal(t, []uint64{p1}, removed)
		return s.usage.RecomputeAstralParts(ctx, tx, removed)
	})
	require.NoError(t, err)

	part, err = s.parts.FindByID(ctx, nil, p1)
	require.NoError(t, err)
	assert.False(t, part.IsUsed)

	part, err = s.parts.FindByID(ctx, nil, p2)
	require.NoError(t, err)
	assert.True(t, part.IsUsed)
}

func (s *RepositoriesSuite) TestRecomputeAllRepairsDrift() {
	t := s.T()
	ctx := context.Background()

	p1 := s.part("p1", nil)
	_, err := s.pool.Exec(ctx, "UPDATE astral_parts SET is_used = TRUE WHERE id = $1", p1)
	require.NoError(t, err)

	var report UsageRepair
	err = s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		report, err = s.usage.RecomputeAll(ctx, tx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.AstralParts)

	part, err := s.parts.FindByID(ctx, nil, p1)
	require.NoError(t, err)
	assert.False(t, part.IsUsed)
}

func (s *RepositoriesSuite) TestDuplicateSerialIsIntegrityError() {
	t := s.T()
	ctx := context.Background()

	_, err := s.devices.Create(ctx, nil, entities.Device{Serial: "SN-dup"})
	require.NoError(t, err)
	_, err = s.devices.Create(ctx, nil, entities.Device{Serial: "SN-dup"})
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)
}

func (s *RepositoriesSuite) TestDuplicateDecimalNumIsIntegrityError() {
	t := s.T()
	ctx := context.Background()

	_, err := s.parts.Create(ctx, nil, entities.AstralPart{Name: "Плата", DecimalNum: "АБВГ.469535.001", AstralVariantID: s.variantID})
	require.NoError(t, err)
	_, err = s.parts.Create(ctx, nil, entities.AstralPart{Name: "Плата 2", DecimalNum: "АБВГ.469535.001", AstralVariantID: s.variantID})
	assert.ErrorIs(t, err, apperrors.ErrIntegrityViolation)

	var integrityErr *apperrors.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "astral_parts_decimal_num_key", integrityErr.Constraint)
}

func (s *RepositoriesSuite) TestHierarchyAncestryAndCycle() {
	t := s.T()
	ctx := context.Background()

	root := s.part("root", nil)
	mid := s.part("mid", &root)
	leaf := s.part("leaf", &mid)

	err := s.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		require.NoError(t, s.hierarchy.LockTree(ctx, tx, hierarchy.AstralParts))
		forest, err := s.hierarchy.LoadAncestry(ctx, tx, hierarchy.AstralParts, leaf)
		require.NoError(t, err)

		ancestors, err := forest.Ancestors(leaf)
		require.NoError(t, err)
		require.Len(t, ancestors, 2)
		assert.Equal(t, mid, ancestors[0].ID)
		assert.Equal(t, root, ancestors[1].ID)

		assert.ErrorIs(t, forest.CheckReparent(root, &leaf), apperrors.ErrCycleDetected)
		return nil
	})
	require.NoError(t, err)

	children, err := s.hierarchy.LoadChildren(ctx, hierarchy.AstralParts, root)
	require.NoError(t, err)
	require.Len(t, children.Children(root), 1)
	assert.Equal(t, mid, children.Children(root)[0].ID)

	_, err = s.hierarchy.LoadChildren(ctx, hierarchy.AstralParts, 999999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func (s *RepositoriesSuite) TestListFilterAndPagination() {
	t := s.T()
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		s.part(name, nil)
	}

	list, total, err := s.parts.List(ctx, types.Filter{
		Search: "a", Limit: 2, Page: 1, WithPagination: true,
		Sort: map[string]string{"name": "asc"}, Filter: map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
}

func (s *RepositoriesSuite) TestListSearchTreatsWildcardsLiterally() {
	t := s.T()
	ctx := context.Background()

	s.part("100%", nil)
	s.part("1000", nil)
	s.part("a_b", nil)
	s.part("axb", nil)

	list, total, err := s.parts.List(ctx, types.Filter{Search: "100%", Filter: map[string]interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "100%", list[0].Name)

	list, _, err = s.parts.List(ctx, types.Filter{Search: "a_b", Filter: map[string]interface{}{}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a_b", list[0].Name)
}

func (s *RepositoriesSuite) TestListNonNumericFilterIsBadRequest() {
	_, _, err := s.parts.List(context.Background(), types.Filter{
		Filter: map[string]interface{}{"astral_variant_id": "abc"},
	})
	s.ErrorIs(err, apperrors.ErrBadRequest)
}

func (s *RepositoriesSuite) TestMaterialPartSearchMatchesAnyRevisionPart() {
	t := s.T()
	ctx := context.Background()
	logger := zap.NewNop()

	first := s.part("Шасси", nil)
	second := s.part("Модуль питания", nil)

	revisions := NewAstralRevisionRepository(s.pool, logger)
	revID, err := revisions.Create(ctx, nil, entities.AstralRevision{Name: "Rev A"})
	require.NoError(t, err)
	require.NoError(t, revisions.SetParts(ctx, nil, revID, []uint64{first, second}))

	manufacturer, err := NewDictionaryRepository(s.pool, AstralManufacturerSpec(), logger).
		Create(ctx, entities.AstralManufacturer{Name: "Завод", Code: "plant"})
	require.NoError(t, err)
	year, err := NewDictionaryRepository(s.pool, AstralYearSpec(), logger).
		Create(ctx, entities.AstralYear{AstralVariantID: s.variantID, Year: 2024})
	require.NoError(t, err)

	materials := NewMaterialPartRepository(s.pool, logger)
	_, err = materials.Create(ctx, nil, entities.MaterialPart{
		Serial: "MP-1", AstralRevisionID: revID, AstralManufacturerID: manufacturer.ID, AstralYearID: year.ID,
	})
	require.NoError(t, err)

	list, total, err := materials.List(ctx, types.Filter{Search: "питания", Filter: map[string]interface{}{}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "MP-1", list[0].Serial)
}
