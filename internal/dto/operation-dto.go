package dto

import (
	"github.com/aarondl/null/v8"
)

// OperationDTO - запись журнала. Должен быть указан ровно один из device_id и material_part_id.
type OperationDTO struct {
	OperationTypeID uint64      `json:"material_operation_type_id" validate:"required,gt=0"`
	UserID          uint64      `json:"material_user_id" validate:"required,gt=0"`
	StatusID        uint64      `json:"material_status_id" validate:"required,gt=0"`
	WarehouseID     uint64      `json:"material_warehouse_id" validate:"required,gt=0"`
	DeviceID        null.Uint64 `json:"device_id" validate:"omitempty,gt=0"`
	MaterialPartID  null.Uint64 `json:"material_part_id" validate:"omitempty,gt=0"`
	Datetime        null.Time   `json:"datetime"`
	Description     string      `json:"description"`
	Result          string      `json:"result"`
}
