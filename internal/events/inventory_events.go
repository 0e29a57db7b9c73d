package events

import "inventory-system/internal/entities"

const (
	OperationRecordedName = "inventory.operation_recorded"
	OperationUpdatedName  = "inventory.operation_updated"
	OperationDeletedName  = "inventory.operation_deleted"
	UsageChangedName      = "inventory.usage_changed"
)

// OperationRecordedEvent публикуется после коммита новой записи журнала.
type OperationRecordedEvent struct {
	Operation entities.Operation
	ActorID   uint64
}

func (e OperationRecordedEvent) Name() string { return OperationRecordedName }

type OperationUpdatedEvent struct {
	Operation entities.Operation
	Previous  entities.OperationTarget
	ActorID   uint64
}

func (e OperationUpdatedEvent) Name() string { return OperationUpdatedName }

type OperationDeletedEvent struct {
	OperationID uint64
	Target      entities.OperationTarget
	ActorID     uint64
}

func (e OperationDeletedEvent) Name() string { return OperationDeletedName }

// UsageChangedEvent - состав устройства изменился; PartIDs - узлы, чьи связи реально добавлены или удалены.
type UsageChangedEvent struct {
	DeviceID uint64
	PartIDs  []uint64
	ActorID  uint64
}

func (e UsageChangedEvent) Name() string { return UsageChangedName }
