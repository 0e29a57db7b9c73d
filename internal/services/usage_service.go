package services

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/utils"
)

// EventPublisher - то, чем сервисы пользуются из шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// UsageServiceInterface поддерживает состав устройств, журнал операций и производные флаги is_used.
// Каждая операция меняет связи и пересчитывает флаги затронутых записей в одной транзакции.
type UsageServiceInterface interface {
	AttachParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error)
	DetachParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error)
	ReplaceParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error)
	// AttachPartsTx - то же, что AttachParts, внутри чужой транзакции; события не публикуются.
	AttachPartsTx(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error)
	ReplacePartsTx(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error)

	RecordOperation(ctx context.Context, op entities.Operation) (*entities.Operation, error)
	UpdateOperation(ctx context.Context, id uint64, op entities.Operation) (*entities.Operation, error)
	DeleteOperation(ctx context.Context, id uint64) error

	DeleteDevice(ctx context.Context, deviceID uint64) error
	RecomputeAll(ctx context.Context) (*dto.UsageRepairDTO, error)
}

type UsageService struct {
	txManager     repositories.TxManagerInterface
	usageRepo     repositories.UsageRepositoryInterface
	deviceRepo    repositories.DeviceRepositoryInterface
	operationRepo repositories.OperationRepositoryInterface
	publisher     EventPublisher
	logger        *zap.Logger
}

func NewUsageService(
	txManager repositories.TxManagerInterface,
	usageRepo repositories.UsageRepositoryInterface,
	deviceRepo repositories.DeviceRepositoryInterface,
	operationRepo repositories.OperationRepositoryInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) UsageServiceInterface {
	return &UsageService{
		txManager:     txManager,
		usageRepo:     usageRepo,
		deviceRepo:    deviceRepo,
		operationRepo: operationRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *UsageService) AttachParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error) {
	var result dto.DevicePartsResultDTO
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		changed, err := s.AttachPartsTx(ctx, tx, deviceID, partIDs)
		if err != nil {
			return err
		}
		result.ChangedPartIDs = changed
		result.Device, err = s.deviceRepo.FindByID(ctx, tx, deviceID)
		return err
	})
	if err != nil {
		s.logger.Warn("UsageService.AttachParts: ошибка", zap.Uint64("deviceID", deviceID), zap.Uint64s("partIDs", partIDs), zap.Error(err))
		return nil, err
	}
	s.publishUsageChanged(ctx, deviceID, result.ChangedPartIDs)
	return &result, nil
}

func (s *UsageService) AttachPartsTx(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	if err := s.usageRepo.LockDevice(ctx, tx, deviceID); err != nil {
		return nil, err
	}
	linked, err := s.usageRepo.LinkParts(ctx, tx, deviceID, uniqueIDs(partIDs))
	if err != nil {
		return nil, err
	}
	if err := s.usageRepo.RecomputeAstralParts(ctx, tx, linked); err != nil {
		return nil, err
	}
	return normalizeIDs(linked), nil
}

func (s *UsageService) DetachParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error) {
	var result dto.DevicePartsResultDTO
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.usageRepo.LockDevice(ctx, tx, deviceID); err != nil {
			return err
		}
		unlinked, err := s.usageRepo.UnlinkParts(ctx, tx, deviceID, uniqueIDs(partIDs))
		if err != nil {
			return err
		}
		if err := s.usageRepo.RecomputeAstralParts(ctx, tx, unlinked); err != nil {
			return err
		}
		result.ChangedPartIDs = normalizeIDs(unlinked)
		result.Device, err = s.deviceRepo.FindByID(ctx, tx, deviceID)
		return err
	})
	if err != nil {
		s.logger.Warn("UsageService.DetachParts: ошибка", zap.Uint64("deviceID", deviceID), zap.Error(err))
		return nil, err
	}
	s.publishUsageChanged(ctx, deviceID, result.ChangedPartIDs)
	return &result, nil
}

// ReplaceParts приводит состав устройства к partIDs; пересчитываются только узлы из разницы.
func (s *UsageService) ReplaceParts(ctx context.Context, deviceID uint64, partIDs []uint64) (*dto.DevicePartsResultDTO, error) {
	var result dto.DevicePartsResultDTO
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		changed, err := s.ReplacePartsTx(ctx, tx, deviceID, partIDs)
		if err != nil {
			return err
		}
		result.ChangedPartIDs = changed
		result.Device, err = s.deviceRepo.FindByID(ctx, tx, deviceID)
		return err
	})
	if err != nil {
		s.logger.Warn("UsageService.ReplaceParts: ошибка", zap.Uint64("deviceID", deviceID), zap.Error(err))
		return nil, err
	}
	s.publishUsageChanged(ctx, deviceID, result.ChangedPartIDs)
	return &result, nil
}

func (s *UsageService) ReplacePartsTx(ctx context.Context, tx pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	if err := s.usageRepo.LockDevice(ctx, tx, deviceID); err != nil {
		return nil, err
	}
	current, err := s.usageRepo.DevicePartIDs(ctx, tx, deviceID)
	if err != nil {
		return nil, err
	}
	toAdd, toRemove := diffIDs(current, uniqueIDs(partIDs))

	unlinked, err := s.usageRepo.UnlinkParts(ctx, tx, deviceID, toRemove)
	if err != nil {
		return nil, err
	}
	linked, err := s.usageRepo.LinkParts(ctx, tx, deviceID, toAdd)
	if err != nil {
		return nil, err
	}
	changed := normalizeIDs(append(unlinked, linked...))
	if err := s.usageRepo.RecomputeAstralParts(ctx, tx, changed); err != nil {
		return nil, err
	}
	return changed, nil
}

func (s *UsageService) RecordOperation(ctx context.Context, op entities.Operation) (*entities.Operation, error) {
	target, err := singleTarget(op)
	if err != nil {
		return nil, err
	}
	if actorID, errCtx := utils.GetUserIDFromCtx(ctx); errCtx == nil {
		op.CreatedBy = &actorID
	}

	var created *entities.Operation
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.operationRepo.Create(ctx, tx, op)
		if err != nil {
			return err
		}
		if err := s.recomputeTargets(ctx, tx, target); err != nil {
			return err
		}
		created, err = s.operationRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("UsageService.RecordOperation: ошибка", zap.Any("target", target), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Операция записана в журнал", zap.Uint64("id", created.ID), zap.Any("target", target))
	s.publish(ctx, events.OperationRecordedEvent{Operation: *created, ActorID: actorIDOrZero(ctx)})
	return created, nil
}

// UpdateOperation пересчитывает и прежнюю, и новую цель записи.
func (s *UsageService) UpdateOperation(ctx context.Context, id uint64, op entities.Operation) (*entities.Operation, error) {
	target, err := singleTarget(op)
	if err != nil {
		return nil, err
	}

	var (
		updated  *entities.Operation
		previous entities.OperationTarget
	)
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.operationRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		previous, _ = existing.Target()

		if err := s.operationRepo.Update(ctx, tx, id, op); err != nil {
			return err
		}
		if err := s.recomputeTargets(ctx, tx, previous, target); err != nil {
			return err
		}
		updated, err = s.operationRepo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("UsageService.UpdateOperation: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, events.OperationUpdatedEvent{Operation: *updated, Previous: previous, ActorID: actorIDOrZero(ctx)})
	return updated, nil
}

func (s *UsageService) DeleteOperation(ctx context.Context, id uint64) error {
	var target entities.OperationTarget
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		target, err = s.operationRepo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.recomputeTargets(ctx, tx, target)
	})
	if err != nil {
		s.logger.Warn("UsageService.DeleteOperation: ошибка", zap.Uint64("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Операция удалена из журнала", zap.Uint64("id", id), zap.Any("target", target))
	s.publish(ctx, events.OperationDeletedEvent{OperationID: id, Target: target, ActorID: actorIDOrZero(ctx)})
	return nil
}

// DeleteDevice удаляет устройство вместе с его связями и записями журнала
// и пересчитывает узлы, которые в него входили.
func (s *UsageService) DeleteDevice(ctx context.Context, deviceID uint64) error {
	var partIDs []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.usageRepo.LockDevice(ctx, tx, deviceID); err != nil {
			return err
		}
		var err error
		partIDs, err = s.usageRepo.DevicePartIDs(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		if err := s.deviceRepo.Delete(ctx, tx, deviceID); err != nil {
			return err
		}
		return s.usageRepo.RecomputeAstralParts(ctx, tx, partIDs)
	})
	if err != nil {
		s.logger.Warn("UsageService.DeleteDevice: ошибка", zap.Uint64("deviceID", deviceID), zap.Error(err))
		return err
	}
	s.logger.Info("Устройство удалено", zap.Uint64("deviceID", deviceID), zap.Uint64s("releasedParts", partIDs))
	s.publish(ctx, events.UsageChangedEvent{DeviceID: deviceID, PartIDs: normalizeIDs(partIDs), ActorID: actorIDOrZero(ctx)})
	return nil
}

func (s *UsageService) RecomputeAll(ctx context.Context) (*dto.UsageRepairDTO, error) {
	var report repositories.UsageRepair
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		report, err = s.usageRepo.RecomputeAll(ctx, tx)
		return err
	})
	if err != nil {
		s.logger.Error("UsageService.RecomputeAll: ошибка пересчёта", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Флаги is_used пересчитаны",
		zap.Int64("astral_parts", report.AstralParts),
		zap.Int64("devices", report.Devices),
		zap.Int64("material_parts", report.MaterialParts),
	)
	if report.AstralParts+report.Devices+report.MaterialParts > 0 {
		s.publish(ctx, events.UsageChangedEvent{ActorID: actorIDOrZero(ctx)})
	}
	return &dto.UsageRepairDTO{
		AstralParts:   report.AstralParts,
		Devices:       report.Devices,
		MaterialParts: report.MaterialParts,
	}, nil
}

func (s *UsageService) recomputeTargets(ctx context.Context, tx pgx.Tx, targets ...entities.OperationTarget) error {
	var devices, parts []uint64
	for _, t := range targets {
		switch t.Kind {
		case entities.TargetDevice:
			devices = append(devices, t.ID)
		case entities.TargetMaterialPart:
			parts = append(parts, t.ID)
		}
	}
	if err := s.usageRepo.RecomputeDevices(ctx, tx, uniqueIDs(devices)); err != nil {
		return err
	}
	return s.usageRepo.RecomputeMaterialParts(ctx, tx, uniqueIDs(parts))
}

func (s *UsageService) publishUsageChanged(ctx context.Context, deviceID uint64, partIDs []uint64) {
	if len(partIDs) == 0 {
		return
	}
	s.publish(ctx, events.UsageChangedEvent{DeviceID: deviceID, PartIDs: partIDs, ActorID: actorIDOrZero(ctx)})
}

func (s *UsageService) publish(ctx context.Context, event eventbus.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, event)
	}
}

// singleTarget требует ровно одну цель: устройство или материальный узел.
func singleTarget(op entities.Operation) (entities.OperationTarget, error) {
	if (op.DeviceID == nil) == (op.MaterialPartID == nil) {
		return entities.OperationTarget{}, apperrors.NewIntegrityError(
			"operations_single_target", "укажите ровно одно: device_id или material_part_id")
	}
	target, _ := op.Target()
	return target, nil
}

func actorIDOrZero(ctx context.Context) uint64 {
	id, _ := utils.GetUserIDFromCtx(ctx)
	return id
}

// uniqueIDs убирает дубликаты и нули, сохраняя порядок.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeIDs(ids []uint64) []uint64 {
	out := uniqueIDs(ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// diffIDs возвращает id, которых нет в current (добавить), и id, которых нет в desired (удалить).
func diffIDs(current, desired []uint64) (toAdd, toRemove []uint64) {
	have := make(map[uint64]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	want := make(map[uint64]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
