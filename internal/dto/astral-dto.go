package dto

import (
	"inventory-system/internal/entities"

	"github.com/aarondl/null/v8"
)

type AstralTypeDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d AstralTypeDTO) ToEntity() entities.AstralType {
	return entities.AstralType{Name: d.Name, Code: d.Code, Description: d.Description}
}

type AstralVariantDTO struct {
	Name         string `json:"name" validate:"required,max=255"`
	Code         string `json:"code" validate:"required,max=255"`
	Description  string `json:"description"`
	AstralTypeID uint64 `json:"astral_type_id" validate:"required,gt=0"`
}

func (d AstralVariantDTO) ToEntity() entities.AstralVariant {
	return entities.AstralVariant{Name: d.Name, Code: d.Code, Description: d.Description, AstralTypeID: d.AstralTypeID}
}

type AstralYearDTO struct {
	AstralVariantID uint64 `json:"astral_variant_id" validate:"required,gt=0"`
	Year            int    `json:"year" validate:"required,gte=1900,lte=2200"`
}

func (d AstralYearDTO) ToEntity() entities.AstralYear {
	return entities.AstralYear{AstralVariantID: d.AstralVariantID, Year: d.Year}
}

type AstralManufacturerDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d AstralManufacturerDTO) ToEntity() entities.AstralManufacturer {
	return entities.AstralManufacturer{Name: d.Name, Code: d.Code, Description: d.Description}
}

// AstralPartDTO используется и для создания, и для полного обновления узла.
// Отсутствующий parent_id или parent_id: null делает узел корневым.
type AstralPartDTO struct {
	Name            string      `json:"name" validate:"required,max=255"`
	DecimalNum      string      `json:"decimal_num" validate:"omitempty,max=255,decimal_num"`
	Description     string      `json:"description"`
	AstralVariantID uint64      `json:"astral_variant_id" validate:"required,gt=0"`
	ParentID        null.Uint64 `json:"parent_id" validate:"omitempty,gt=0"`
}

type AstralRevisionDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description string      `json:"description"`
	ParentID    null.Uint64 `json:"parent_id" validate:"omitempty,gt=0"`
	ReleaseDate null.String `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	PartIDs     []uint64    `json:"part_ids" validate:"omitempty,dive,gt=0"`
}
