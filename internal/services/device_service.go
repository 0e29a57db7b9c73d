package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/types"
)

type DeviceServiceInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error)
	Get(ctx context.Context, id uint64) (*entities.Device, error)
	Create(ctx context.Context, in dto.DeviceDTO) (*entities.Device, error)
	// Update заменяет атрибуты устройства. part_ids, если передан, заменяет и состав; без него состав не меняется.
	Update(ctx context.Context, id uint64, in dto.DeviceDTO) (*entities.Device, error)
	Delete(ctx context.Context, id uint64) error
}

type DeviceService struct {
	txManager repositories.TxManagerInterface
	repo      repositories.DeviceRepositoryInterface
	usage     UsageServiceInterface
	publisher EventPublisher
	logger    *zap.Logger
}

func NewDeviceService(
	txManager repositories.TxManagerInterface,
	repo repositories.DeviceRepositoryInterface,
	usage UsageServiceInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) DeviceServiceInterface {
	return &DeviceService{txManager: txManager, repo: repo, usage: usage, publisher: publisher, logger: logger}
}

func (s *DeviceService) List(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *DeviceService) Get(ctx context.Context, id uint64) (*entities.Device, error) {
	return s.repo.FindByID(ctx, nil, id)
}

// Create создаёт устройство и привязывает к нему узлы одной транзакцией.
func (s *DeviceService) Create(ctx context.Context, in dto.DeviceDTO) (*entities.Device, error) {
	device := deviceFromDTO(in)

	var (
		created *entities.Device
		linked  []uint64
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, device)
		if err != nil {
			return err
		}
		if len(in.PartIDs) > 0 {
			if linked, err = s.usage.AttachPartsTx(ctx, tx, id, in.PartIDs); err != nil {
				return err
			}
		}
		created, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("DeviceService.Create: ошибка", zap.String("serial", device.Serial), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Устройство создано", zap.Uint64("id", created.ID), zap.Uint64s("parts", linked))
	if len(linked) > 0 && s.publisher != nil {
		s.publisher.Publish(ctx, events.UsageChangedEvent{DeviceID: created.ID, PartIDs: linked, ActorID: actorIDOrZero(ctx)})
	}
	return created, nil
}

func (s *DeviceService) Update(ctx context.Context, id uint64, in dto.DeviceDTO) (*entities.Device, error) {
	var (
		updated *entities.Device
		changed []uint64
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.repo.Update(ctx, tx, id, deviceFromDTO(in)); err != nil {
			return err
		}
		var err error
		if in.PartIDs != nil {
			if changed, err = s.usage.ReplacePartsTx(ctx, tx, id, in.PartIDs); err != nil {
				return err
			}
		}
		updated, err = s.repo.FindByID(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("DeviceService.Update: ошибка", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	if len(changed) > 0 && s.publisher != nil {
		s.publisher.Publish(ctx, events.UsageChangedEvent{DeviceID: id, PartIDs: changed, ActorID: actorIDOrZero(ctx)})
	}
	return updated, nil
}

func (s *DeviceService) Delete(ctx context.Context, id uint64) error {
	return s.usage.DeleteDevice(ctx, id)
}

func deviceFromDTO(in dto.DeviceDTO) entities.Device {
	return entities.Device{
		Serial:      strings.TrimSpace(in.Serial),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
	}
}
