package controllers

import (
	"context"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
)

type pgxTx = pgx.Tx

// usageAdapter реализует UsageServiceInterface поверх stubUsage; незадействованные методы ничего не делают.
type usageAdapter struct{ s *stubUsage }

func (u usageAdapter) AttachParts(_ context.Context, deviceID uint64, ids []uint64) (*dto.DevicePartsResultDTO, error) {
	return u.s.attach(deviceID, ids)
}

func (u usageAdapter) DetachParts(_ context.Context, deviceID uint64, ids []uint64) (*dto.DevicePartsResultDTO, error) {
	return u.s.attach(deviceID, ids)
}

func (u usageAdapter) ReplaceParts(_ context.Context, deviceID uint64, ids []uint64) (*dto.DevicePartsResultDTO, error) {
	return u.s.attach(deviceID, ids)
}

func (u usageAdapter) AttachPartsTx(context.Context, pgx.Tx, uint64, []uint64) ([]uint64, error) {
	return nil, nil
}

func (u usageAdapter) ReplacePartsTx(context.Context, pgx.Tx, uint64, []uint64) ([]uint64, error) {
	return nil, nil
}

func (u usageAdapter) RecordOperation(_ context.Context, op entities.Operation) (*entities.Operation, error) {
	return &op, nil
}

func (u usageAdapter) UpdateOperation(_ context.Context, _ uint64, op entities.Operation) (*entities.Operation, error) {
	return &op, nil
}

func (u usageAdapter) DeleteOperation(context.Context, uint64) error { return nil }

func (u usageAdapter) DeleteDevice(context.Context, uint64) error { return nil }

func (u usageAdapter) RecomputeAll(context.Context) (*dto.UsageRepairDTO, error) {
	return &dto.UsageRepairDTO{}, nil
}
