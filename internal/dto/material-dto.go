package dto

import (
	"inventory-system/internal/entities"

	"github.com/aarondl/null/v8"
)

// DeviceDTO: отсутствующий part_ids при обновлении сохраняет состав, пустой список отвязывает все узлы.
type DeviceDTO struct {
	Serial      string   `json:"serial" validate:"required,max=255,serial"`
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description"`
	PartIDs     []uint64 `json:"part_ids" validate:"omitempty,dive,gt=0"`
}

type DevicePartsDTO struct {
	PartIDs []uint64 `json:"part_ids" validate:"required,min=1,dive,gt=0"`
}

// ReplaceDevicePartsDTO задаёт полный состав устройства; пустой список отвязывает все узлы.
type ReplaceDevicePartsDTO struct {
	PartIDs []uint64 `json:"part_ids" validate:"dive,gt=0"`
}

type MaterialPartDTO struct {
	Serial               string      `json:"serial" validate:"required,max=255,serial"`
	AstralRevisionID     uint64      `json:"astral_revision_id" validate:"required,gt=0"`
	AstralManufacturerID uint64      `json:"astral_manufacturer_id" validate:"required,gt=0"`
	AstralYearID         uint64      `json:"astral_year_id" validate:"required,gt=0"`
	ParentID             null.Uint64 `json:"parent_id" validate:"omitempty,gt=0"`
}

type MaterialGroupDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d MaterialGroupDTO) ToEntity() entities.MaterialGroup {
	return entities.MaterialGroup{Name: d.Name, Description: d.Description}
}

type MaterialOperationTypeDTO struct {
	Name            string `json:"name" validate:"required,max=255"`
	Description     string `json:"description"`
	MaterialGroupID uint64 `json:"material_group_id" validate:"required,gt=0"`
}

func (d MaterialOperationTypeDTO) ToEntity() entities.MaterialOperationType {
	return entities.MaterialOperationType{Name: d.Name, Description: d.Description, MaterialGroupID: d.MaterialGroupID}
}

type MaterialUserDTO struct {
	FirstName       string      `json:"first_name" validate:"required,max=255"`
	SecondName      string      `json:"second_name" validate:"required,max=255"`
	Patronymic      string      `json:"patronymic" validate:"max=255"`
	MaterialGroupID null.Uint64 `json:"material_group_id" validate:"omitempty,gt=0"`
}

func (d MaterialUserDTO) ToEntity() entities.MaterialUser {
	return entities.MaterialUser{
		FirstName:       d.FirstName,
		SecondName:      d.SecondName,
		Patronymic:      d.Patronymic,
		MaterialGroupID: d.MaterialGroupID.Ptr(),
	}
}

type MaterialStatusDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d MaterialStatusDTO) ToEntity() entities.MaterialStatus {
	return entities.MaterialStatus{Name: d.Name, Description: d.Description}
}

type MaterialWarehouseDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description string      `json:"description"`
	ParentID    null.Uint64 `json:"parent_id" validate:"omitempty,gt=0"`
}
