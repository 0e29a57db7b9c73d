package entities

import "inventory-system/pkg/types"

// Device - физическое устройство из каталожных узлов. IsUsed истинно, пока на устройство ссылается хотя бы одна операция.
type Device struct {
	ID          uint64 `json:"id"`
	Serial      string `json:"serial"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsUsed      bool   `json:"is_used"`

	types.BaseEntity

	Parts []PartRef `json:"parts" db:"-"`
}

// DisplayName возвращает имя устройства, а при его отсутствии - серийный номер.
func (d *Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Serial
}
