package dto

import "inventory-system/internal/entities"

// DevicePartsResultDTO - состав устройства после изменения и узлы, у которых пересчитан is_used.
type DevicePartsResultDTO struct {
	Device         *entities.Device `json:"device"`
	ChangedPartIDs []uint64         `json:"changed_part_ids"`
}

type UsageRepairDTO struct {
	AstralParts   int64 `json:"astral_parts"`
	Devices       int64 `json:"devices"`
	MaterialParts int64 `json:"material_parts"`
}

type LabelDTO struct {
	URL  string `json:"url"`
	Info string `json:"info"`
}
