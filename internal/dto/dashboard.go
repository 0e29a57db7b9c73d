package dto

import "inventory-system/internal/entities"

type DashboardTotalsDTO struct {
	MaterialParts   uint64 `json:"material_parts"`
	Operations      uint64 `json:"operations"`
	AstralRevisions uint64 `json:"astral_revisions"`
	AstralParts     uint64 `json:"astral_parts"`
	Devices         uint64 `json:"devices"`
	UsedDevices     uint64 `json:"used_devices"`
	UsedParts       uint64 `json:"used_parts"`
}

type DashboardDTO struct {
	Totals           DashboardTotalsDTO   `json:"totals"`
	RecentOperations []entities.Operation `json:"recent_operations"`
}
