package repositories

import (
	"database/sql"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
)

func AstralTypeSpec() DictionarySpec[entities.AstralType] {
	return DictionarySpec[entities.AstralType]{
		Name:    "astral_types",
		Table:   "astral_types",
		Columns: []string{"name", "code", "description"},
		Select:  []string{"t.id", "t.name", "t.code", "t.description", "t.created_at", "t.updated_at"},
		Search:  []string{"t.name", "t.code"},
		Fields:  map[string]string{"id": "t.id", "name": "t.name", "code": "t.code", "created_at": "t.created_at"},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.AstralType, error) {
			var e entities.AstralType
			err := row.Scan(&e.ID, &e.Name, &e.Code, &e.Description, &e.CreatedAt, &e.UpdatedAt)
			if err != nil {
				return nil, scanOne(err, "astral_type")
			}
			return &e, nil
		},
		Values: func(e entities.AstralType) []interface{} {
			return []interface{}{e.Name, e.Code, e.Description}
		},
	}
}

func AstralVariantSpec() DictionarySpec[entities.AstralVariant] {
	return DictionarySpec[entities.AstralVariant]{
		Name:    "astral_variants",
		Table:   "astral_variants",
		Columns: []string{"name", "code", "description", "astral_type_id"},
		Select: []string{
			"t.id", "t.name", "t.code", "t.description", "t.astral_type_id", "t.created_at", "t.updated_at",
			"COALESCE(at.name, '')",
		},
		Joins:  []string{"astral_types at ON at.id = t.astral_type_id"},
		Search: []string{"t.name", "t.code", "at.name"},
		Fields: map[string]string{
			"id": "t.id", "name": "t.name", "code": "t.code",
			"astral_type_id": "t.astral_type_id", "created_at": "t.created_at",
		},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.AstralVariant, error) {
			var e entities.AstralVariant
			err := row.Scan(&e.ID, &e.Name, &e.Code, &e.Description, &e.AstralTypeID, &e.CreatedAt, &e.UpdatedAt, &e.AstralTypeName)
			if err != nil {
				return nil, scanOne(err, "astral_variant")
			}
			return &e, nil
		},
		Values: func(e entities.AstralVariant) []interface{} {
			return []interface{}{e.Name, e.Code, e.Description, e.AstralTypeID}
		},
	}
}

func AstralYearSpec() DictionarySpec[entities.AstralYear] {
	return DictionarySpec[entities.AstralYear]{
		Name:    "astral_years",
		Table:   "astral_years",
		Columns: []string{"astral_variant_id", "year"},
		Select: []string{
			"t.id", "t.astral_variant_id", "t.year", "t.created_at", "t.updated_at",
			"COALESCE(av.name, '')",
		},
		Joins:  []string{"astral_variants av ON av.id = t.astral_variant_id"},
		Search: []string{"av.name", "t.year::text"},
		Fields: map[string]string{
			"id": "t.id", "year": "t.year", "astral_variant_id": "t.astral_variant_id",
		},
		OrderBy: "t.year DESC",
		Scan: func(row pgx.Row) (*entities.AstralYear, error) {
			var e entities.AstralYear
			err := row.Scan(&e.ID, &e.AstralVariantID, &e.Year, &e.CreatedAt, &e.UpdatedAt, &e.AstralVariantName)
			if err != nil {
				return nil, scanOne(err, "astral_year")
			}
			return &e, nil
		},
		Values: func(e entities.AstralYear) []interface{} {
			return []interface{}{e.AstralVariantID, e.Year}
		},
	}
}

func AstralManufacturerSpec() DictionarySpec[entities.AstralManufacturer] {
	return DictionarySpec[entities.AstralManufacturer]{
		Name:    "astral_manufacturers",
		Table:   "astral_manufacturers",
		Columns: []string{"name", "code", "description"},
		Select:  []string{"t.id", "t.name", "t.code", "t.description", "t.created_at", "t.updated_at"},
		Search:  []string{"t.name", "t.code"},
		Fields:  map[string]string{"id": "t.id", "name": "t.name", "code": "t.code", "created_at": "t.created_at"},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.AstralManufacturer, error) {
			var e entities.AstralManufacturer
			err := row.Scan(&e.ID, &e.Name, &e.Code, &e.Description, &e.CreatedAt, &e.UpdatedAt)
			if err != nil {
				return nil, scanOne(err, "astral_manufacturer")
			}
			return &e, nil
		},
		Values: func(e entities.AstralManufacturer) []interface{} {
			return []interface{}{e.Name, e.Code, e.Description}
		},
	}
}

func MaterialGroupSpec() DictionarySpec[entities.MaterialGroup] {
	return DictionarySpec[entities.MaterialGroup]{
		Name:    "material_groups",
		Table:   "material_groups",
		Columns: []string{"name", "description"},
		Select:  []string{"t.id", "t.name", "t.description", "t.created_at", "t.updated_at"},
		Search:  []string{"t.name"},
		Fields:  map[string]string{"id": "t.id", "name": "t.name", "created_at": "t.created_at"},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.MaterialGroup, error) {
			var e entities.MaterialGroup
			if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
				return nil, scanOne(err, "material_group")
			}
			return &e, nil
		},
		Values: func(e entities.MaterialGroup) []interface{} {
			return []interface{}{e.Name, e.Description}
		},
	}
}

func MaterialOperationTypeSpec() DictionarySpec[entities.MaterialOperationType] {
	return DictionarySpec[entities.MaterialOperationType]{
		Name:    "material_operation_types",
		Table:   "material_operation_types",
		Columns: []string{"name", "description", "material_group_id"},
		Select: []string{
			"t.id", "t.name", "t.description", "t.material_group_id", "t.created_at", "t.updated_at",
			"COALESCE(mg.name, '')",
		},
		Joins:  []string{"material_groups mg ON mg.id = t.material_group_id"},
		Search: []string{"t.name", "mg.name"},
		Fields: map[string]string{
			"id": "t.id", "name": "t.name", "material_group_id": "t.material_group_id",
		},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.MaterialOperationType, error) {
			var e entities.MaterialOperationType
			err := row.Scan(&e.ID, &e.Name, &e.Description, &e.MaterialGroupID, &e.CreatedAt, &e.UpdatedAt, &e.MaterialGroupName)
			if err != nil {
				return nil, scanOne(err, "material_operation_type")
			}
			return &e, nil
		},
		Values: func(e entities.MaterialOperationType) []interface{} {
			return []interface{}{e.Name, e.Description, e.MaterialGroupID}
		},
	}
}

func MaterialUserSpec() DictionarySpec[entities.MaterialUser] {
	return DictionarySpec[entities.MaterialUser]{
		Name:    "material_users",
		Table:   "material_users",
		Columns: []string{"first_name", "second_name", "patronymic", "material_group_id"},
		Select: []string{
			"t.id", "t.first_name", "t.second_name", "t.patronymic", "t.material_group_id",
			"t.created_at", "t.updated_at", "mg.name",
		},
		Joins:  []string{"material_groups mg ON mg.id = t.material_group_id"},
		Search: []string{"t.first_name", "t.second_name", "t.patronymic"},
		Fields: map[string]string{
			"id": "t.id", "first_name": "t.first_name", "second_name": "t.second_name",
			"material_group_id": "t.material_group_id",
		},
		OrderBy: "t.second_name ASC, t.first_name ASC",
		Scan: func(row pgx.Row) (*entities.MaterialUser, error) {
			var (
				e       entities.MaterialUser
				groupID sql.NullInt64
				group   sql.NullString
			)
			err := row.Scan(&e.ID, &e.FirstName, &e.SecondName, &e.Patronymic, &groupID, &e.CreatedAt, &e.UpdatedAt, &group)
			if err != nil {
				return nil, scanOne(err, "material_user")
			}
			e.MaterialGroupID = nullUint64(groupID)
			e.MaterialGroupName = nullString(group)
			return &e, nil
		},
		Values: func(e entities.MaterialUser) []interface{} {
			return []interface{}{e.FirstName, e.SecondName, e.Patronymic, e.MaterialGroupID}
		},
	}
}

func MaterialStatusSpec() DictionarySpec[entities.MaterialStatus] {
	return DictionarySpec[entities.MaterialStatus]{
		Name:    "material_statuses",
		Table:   "material_statuses",
		Columns: []string{"name", "description"},
		Select:  []string{"t.id", "t.name", "t.description", "t.created_at", "t.updated_at"},
		Search:  []string{"t.name"},
		Fields:  map[string]string{"id": "t.id", "name": "t.name", "created_at": "t.created_at"},
		OrderBy: "t.name ASC",
		Scan: func(row pgx.Row) (*entities.MaterialStatus, error) {
			var e entities.MaterialStatus
			if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
				return nil, scanOne(err, "material_status")
			}
			return &e, nil
		},
		Values: func(e entities.MaterialStatus) []interface{} {
			return []interface{}{e.Name, e.Description}
		},
	}
}

func nullUint64(n sql.NullInt64) *uint64 {
	if !n.Valid {
		return nil
	}
	v := uint64(n.Int64)
	return &v
}

func nullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}
