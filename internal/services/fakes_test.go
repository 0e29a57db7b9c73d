package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
)

// memStore - состояние базы в памяти с теми же правилами пересчёта, что и SQL.
type memStore struct {
	devices       map[uint64]*entities.Device
	astralParts   map[uint64]bool
	materialParts map[uint64]bool
	links         map[uint64]map[uint64]struct{}
	ops           map[uint64]*entities.Operation
	nextOpID      uint64

	recomputedParts [][]uint64
}

func newMemStore() *memStore {
	return &memStore{
		devices:       make(map[uint64]*entities.Device),
		astralParts:   make(map[uint64]bool),
		materialParts: make(map[uint64]bool),
		links:         make(map[uint64]map[uint64]struct{}),
		ops:           make(map[uint64]*entities.Operation),
	}
}

func (m *memStore) addDevice(id uint64, serial string) {
	m.devices[id] = &entities.Device{ID: id, Serial: serial}
	m.links[id] = make(map[uint64]struct{})
}

func (m *memStore) addPart(id uint64)         { m.astralParts[id] = false }
func (m *memStore) addMaterialPart(id uint64) { m.materialParts[id] = false }

func (m *memStore) partAttached(id uint64) bool {
	for _, parts := range m.links {
		if _, ok := parts[id]; ok {
			return true
		}
	}
	return false
}

func (m *memStore) deviceReferenced(id uint64) bool {
	for _, op := range m.ops {
		if op.DeviceID != nil && *op.DeviceID == id {
			return true
		}
	}
	return false
}

func (m *memStore) materialPartReferenced(id uint64) bool {
	for _, op := range m.ops {
		if op.MaterialPartID != nil && *op.MaterialPartID == id {
			return true
		}
	}
	return false
}

type fakeUsageRepo struct{ *memStore }

func (r fakeUsageRepo) LockDevice(_ context.Context, _ pgx.Tx, deviceID uint64) error {
	if _, ok := r.devices[deviceID]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r fakeUsageRepo) DevicePartIDs(_ context.Context, _ pgx.Tx, deviceID uint64) ([]uint64, error) {
	out := make([]uint64, 0)
	for id := range r.links[deviceID] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r fakeUsageRepo) LinkParts(_ context.Context, _ pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	var linked []uint64
	for _, id := range partIDs {
		if _, ok := r.astralParts[id]; !ok {
			return nil, apperrors.NewIntegrityError("device_parts_astral_part_id_fkey", "нет узла")
		}
		if _, ok := r.links[deviceID][id]; ok {
			continue
		}
		r.links[deviceID][id] = struct{}{}
		linked = append(linked, id)
	}
	return linked, nil
}

func (r fakeUsageRepo) UnlinkParts(_ context.Context, _ pgx.Tx, deviceID uint64, partIDs []uint64) ([]uint64, error) {
	var unlinked []uint64
	for _, id := range partIDs {
		if _, ok := r.links[deviceID][id]; ok {
			delete(r.links[deviceID], id)
			unlinked = append(unlinked, id)
		}
	}
	return unlinked, nil
}

func (r fakeUsageRepo) RecomputeAstralParts(_ context.Context, _ pgx.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	r.recomputedParts = append(r.recomputedParts, append([]uint64(nil), ids...))
	for _, id := range ids {
		if _, ok := r.astralParts[id]; ok {
			r.astralParts[id] = r.partAttached(id)
		}
	}
	return nil
}

func (r fakeUsageRepo) RecomputeDevices(_ context.Context, _ pgx.Tx, ids []uint64) error {
	for _, id := range ids {
		if d, ok := r.devices[id]; ok {
			d.IsUsed = r.deviceReferenced(id)
		}
	}
	return nil
}

func (r fakeUsageRepo) RecomputeMaterialParts(_ context.Context, _ pgx.Tx, ids []uint64) error {
	for _, id := range ids {
		if _, ok := r.materialParts[id]; ok {
			r.materialParts[id] = r.materialPartReferenced(id)
		}
	}
	return nil
}

func (r fakeUsageRepo) RecomputeAll(_ context.Context, _ pgx.Tx) (repositories.UsageRepair, error) {
	var report repositories.UsageRepair
	for id, used := range r.astralParts {
		if want := r.partAttached(id); want != used {
			r.astralParts[id] = want
			report.AstralParts++
		}
	}
	for id, d := range r.devices {
		if want := r.deviceReferenced(id); want != d.IsUsed {
			d.IsUsed = want
			report.Devices++
		}
	}
	for id, used := range r.materialParts {
		if want := r.materialPartReferenced(id); want != used {
			r.materialParts[id] = want
			report.MaterialParts++
		}
	}
	return report, nil
}

type fakeDeviceRepo struct{ *memStore }

func (r fakeDeviceRepo) List(context.Context, types.Filter) ([]entities.Device, uint64, error) {
	return nil, 0, nil
}

func (r fakeDeviceRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Device, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *d
	out.Parts = []entities.PartRef{}
	ids, _ := fakeUsageRepo(r).DevicePartIDs(context.Background(), nil, id)
	for _, pid := range ids {
		out.Parts = append(out.Parts, entities.PartRef{ID: pid})
	}
	return &out, nil
}

func (r fakeDeviceRepo) Create(_ context.Context, _ pgx.Tx, d entities.Device) (uint64, error) {
	id := uint64(len(r.devices) + 1000)
	r.addDevice(id, d.Serial)
	return id, nil
}

func (r fakeDeviceRepo) Update(_ context.Context, _ pgx.Tx, id uint64, d entities.Device) error {
	existing, ok := r.devices[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Serial, existing.Name, existing.Description = d.Serial, d.Name, d.Description
	return nil
}

// Delete повторяет ON DELETE CASCADE для device_parts и operations.
func (r fakeDeviceRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.devices[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.devices, id)
	delete(r.links, id)
	for opID, op := range r.ops {
		if op.DeviceID != nil && *op.DeviceID == id {
			delete(r.ops, opID)
		}
	}
	return nil
}

type fakeOperationRepo struct{ *memStore }

func (r fakeOperationRepo) List(context.Context, types.Filter) ([]entities.Operation, uint64, error) {
	return nil, 0, nil
}

func (r fakeOperationRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Operation, error) {
	op, ok := r.ops[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *op
	return &out, nil
}

func (r fakeOperationRepo) Create(_ context.Context, _ pgx.Tx, op entities.Operation) (uint64, error) {
	if op.DeviceID != nil {
		if _, ok := r.devices[*op.DeviceID]; !ok {
			return 0, apperrors.NewIntegrityError("operations_device_id_fkey", "нет устройства")
		}
	}
	r.nextOpID++
	op.ID = r.nextOpID
	r.ops[op.ID] = &op
	return op.ID, nil
}

func (r fakeOperationRepo) Update(_ context.Context, _ pgx.Tx, id uint64, op entities.Operation) error {
	existing, ok := r.ops[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	op.ID = id
	op.CreatedBy = existing.CreatedBy
	r.ops[id] = &op
	return nil
}

func (r fakeOperationRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) (entities.OperationTarget, error) {
	op, ok := r.ops[id]
	if !ok {
		return entities.OperationTarget{}, apperrors.ErrNotFound
	}
	delete(r.ops, id)
	target, _ := op.Target()
	return target, nil
}

// passThroughTx выполняет fn без транзакции.
type passThroughTx struct{}

func (passThroughTx) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name())
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return repositories.ErrCacheMiss
	}
	return json.Unmarshal(v, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
