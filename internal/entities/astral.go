package entities

import (
	"time"

	"inventory-system/pkg/types"
)

// AstralType - тип устройства (маршрутизатор, коммутатор, сервер).
type AstralType struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`

	types.BaseEntity
}

// AstralVariant - вариант исполнения внутри типа.
type AstralVariant struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	AstralTypeID uint64 `json:"astral_type_id"`

	types.BaseEntity

	AstralTypeName string `json:"astral_type_name" db:"-"`
}

// AstralYear - год выпуска варианта.
type AstralYear struct {
	ID              uint64 `json:"id"`
	AstralVariantID uint64 `json:"astral_variant_id"`
	Year            int    `json:"year"`

	types.BaseEntity

	AstralVariantName string `json:"astral_variant_name" db:"-"`
}

type AstralManufacturer struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`

	types.BaseEntity
}

// AstralPart - каталожный узел. IsUsed истинно, пока узел входит в состав хотя бы одного устройства.
type AstralPart struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	DecimalNum      string  `json:"decimal_num"`
	Description     string  `json:"description"`
	AstralVariantID uint64  `json:"astral_variant_id"`
	ParentID        *uint64 `json:"parent_id"`
	IsUsed          bool    `json:"is_used"`

	types.BaseEntity

	AstralVariantName string  `json:"astral_variant_name" db:"-"`
	AstralTypeName    string  `json:"astral_type_name" db:"-"`
	ParentName        *string `json:"parent_name" db:"-"`
}

// PartRef - краткая ссылка на каталожный узел в составе устройства или ревизии.
type PartRef struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	DecimalNum string `json:"decimal_num"`
}

type AstralRevision struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uint64    `json:"parent_id"`
	ReleaseDate *time.Time `json:"release_date"`

	types.BaseEntity

	ParentName *string   `json:"parent_name" db:"-"`
	Parts      []PartRef `json:"parts" db:"-"`
}
