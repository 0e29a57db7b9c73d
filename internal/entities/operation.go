package entities

import (
	"time"

	"inventory-system/pkg/types"
)

type TargetKind string

const (
	TargetDevice       TargetKind = "device"
	TargetMaterialPart TargetKind = "material_part"
)

// OperationTarget - объект, на который ссылается запись журнала.
type OperationTarget struct {
	Kind TargetKind `json:"kind"`
	ID   uint64     `json:"id"`
}

// Operation - запись журнала операций над устройством или материальным узлом.
type Operation struct {
	ID              uint64    `json:"id"`
	OperationTypeID uint64    `json:"material_operation_type_id"`
	UserID          uint64    `json:"material_user_id"`
	StatusID        uint64    `json:"material_status_id"`
	WarehouseID     uint64    `json:"material_warehouse_id"`
	DeviceID        *uint64   `json:"device_id"`
	MaterialPartID  *uint64   `json:"material_part_id"`
	Datetime        time.Time `json:"datetime"`
	Description     string    `json:"description"`
	Result          string    `json:"result"`
	CreatedBy       *uint64   `json:"created_by"`

	types.BaseEntity

	OperationTypeName  string  `json:"operation_type_name" db:"-"`
	UserFullName       string  `json:"user_full_name" db:"-"`
	StatusName         string  `json:"status_name" db:"-"`
	WarehouseName      string  `json:"warehouse_name" db:"-"`
	DeviceSerial       *string `json:"device_serial" db:"-"`
	MaterialPartSerial *string `json:"material_part_serial" db:"-"`
}

// Target возвращает единственную цель записи; ok=false для записи без цели.
func (o *Operation) Target() (OperationTarget, bool) {
	switch {
	case o.DeviceID != nil:
		return OperationTarget{Kind: TargetDevice, ID: *o.DeviceID}, true
	case o.MaterialPartID != nil:
		return OperationTarget{Kind: TargetMaterialPart, ID: *o.MaterialPartID}, true
	}
	return OperationTarget{}, false
}

// TargetSerial возвращает серийный номер цели для отображения.
func (o *Operation) TargetSerial() string {
	switch {
	case o.DeviceSerial != nil:
		return *o.DeviceSerial
	case o.MaterialPartSerial != nil:
		return *o.MaterialPartSerial
	}
	return ""
}
