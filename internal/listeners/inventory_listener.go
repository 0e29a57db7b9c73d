package listeners

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/events"
	"inventory-system/pkg/eventbus"
)

// DashboardInvalidator - часть сервиса сводки, нужная слушателю.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// InventoryListener сбрасывает кеш сводки после изменений журнала и состава устройств
// и пишет аудит-запись о каждом изменении.
type InventoryListener struct {
	dashboard DashboardInvalidator
	logger    *zap.Logger
}

func NewInventoryListener(dashboard DashboardInvalidator, logger *zap.Logger) *InventoryListener {
	return &InventoryListener{dashboard: dashboard, logger: logger}
}

func (l *InventoryListener) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		events.OperationRecordedName,
		events.OperationUpdatedName,
		events.OperationDeletedName,
		events.UsageChangedName,
	} {
		bus.Subscribe(name, l.handle)
	}
	l.logger.Info("InventoryListener подписан на события журнала и состава устройств")
}

func (l *InventoryListener) handle(ctx context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.OperationRecordedEvent:
		l.logger.Info("Аудит: операция записана",
			zap.Uint64("operationID", e.Operation.ID), zap.Uint64("actorID", e.ActorID))
	case events.OperationUpdatedEvent:
		l.logger.Info("Аудит: операция изменена",
			zap.Uint64("operationID", e.Operation.ID), zap.Any("previousTarget", e.Previous), zap.Uint64("actorID", e.ActorID))
	case events.OperationDeletedEvent:
		l.logger.Info("Аудит: операция удалена",
			zap.Uint64("operationID", e.OperationID), zap.Any("target", e.Target), zap.Uint64("actorID", e.ActorID))
	case events.UsageChangedEvent:
		l.logger.Info("Аудит: состав устройства изменён",
			zap.Uint64("deviceID", e.DeviceID), zap.Uint64s("partIDs", e.PartIDs), zap.Uint64("actorID", e.ActorID))
	default:
		return nil
	}
	l.dashboard.Invalidate(ctx)
	return nil
}
