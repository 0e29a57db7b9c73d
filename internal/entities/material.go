package entities

import (
	"strings"

	"inventory-system/pkg/types"
)

// MaterialPart - серийный экземпляр ревизии. IsUsed истинно, пока на него ссылается хотя бы одна операция.
type MaterialPart struct {
	ID                   uint64  `json:"id"`
	Serial               string  `json:"serial"`
	AstralRevisionID     uint64  `json:"astral_revision_id"`
	AstralManufacturerID uint64  `json:"astral_manufacturer_id"`
	AstralYearID         uint64  `json:"astral_year_id"`
	ParentID             *uint64 `json:"parent_id"`
	IsUsed               bool    `json:"is_used"`

	types.BaseEntity

	RevisionName     string  `json:"revision_name" db:"-"`
	ManufacturerName string  `json:"manufacturer_name" db:"-"`
	Year             int     `json:"year" db:"-"`
	ParentSerial     *string `json:"parent_serial" db:"-"`
	PartName         *string `json:"part_name" db:"-"`
	TypeName         *string `json:"type_name" db:"-"`
}

type MaterialGroup struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	types.BaseEntity
}

type MaterialOperationType struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MaterialGroupID uint64 `json:"material_group_id"`

	types.BaseEntity

	MaterialGroupName string `json:"material_group_name" db:"-"`
}

// MaterialUser - исполнитель операций (не учётная запись входа).
type MaterialUser struct {
	ID              uint64  `json:"id"`
	FirstName       string  `json:"first_name"`
	SecondName      string  `json:"second_name"`
	Patronymic      string  `json:"patronymic"`
	MaterialGroupID *uint64 `json:"material_group_id"`

	types.BaseEntity

	MaterialGroupName *string `json:"material_group_name" db:"-"`
}

func (u *MaterialUser) FullName() string {
	return strings.TrimSpace(strings.Join([]string{u.SecondName, u.FirstName, u.Patronymic}, " "))
}

type MaterialStatus struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	types.BaseEntity
}

type MaterialWarehouse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *uint64 `json:"parent_id"`

	types.BaseEntity

	ParentName *string `json:"parent_name" db:"-"`
}
