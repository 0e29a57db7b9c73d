package listeners

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/pkg/eventbus"
)

type countingInvalidator struct{ calls atomic.Int32 }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls.Add(1) }

type unrelatedEvent struct{}

func (unrelatedEvent) Name() string { return events.UsageChangedName }

func TestInventoryListener_InvalidatesDashboard(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	inv := &countingInvalidator{}
	NewInventoryListener(inv, zap.NewNop()).Register(bus)

	ctx := context.Background()
	bus.Publish(ctx, events.OperationRecordedEvent{Operation: entities.Operation{ID: 1}})
	bus.Publish(ctx, events.OperationUpdatedEvent{Operation: entities.Operation{ID: 1}})
	bus.Publish(ctx, events.OperationDeletedEvent{OperationID: 1})
	bus.Publish(ctx, events.UsageChangedEvent{DeviceID: 3, PartIDs: []uint64{1}})
	bus.Publish(ctx, unrelatedEvent{})

	drainCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Drain(drainCtx))

	assert.Equal(t, int32(4), inv.calls.Load())
}
