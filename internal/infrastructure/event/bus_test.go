package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Sale", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	paid := newTestHandler("SalePaid")
	all := newTestHandler()
	bus.Subscribe(paid)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SalePaid"), newTestEvent("SaleCancelled")))

	assert.Equal(t, 1, paid.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("SalePaid")
	bus.Subscribe(h, "PurchaseReceived")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SalePaid"), newTestEvent("PurchaseReceived")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_FailuresDoNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("SalePaid")
	failing.err = errors.New("notifier down")
	panicking := newTestHandler("SalePaid")
	panicking.panicWith = "boom"
	healthy := newTestHandler("SalePaid")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("SalePaid"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	require.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
	assert.Contains(t, logs.All()[1].ContextMap()["error"], "handler panicked: boom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("SalePaid")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SalePaid")))
	assert.Zero(t, h.count())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler()
	bus.Subscribe(h)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("SalePaid"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, h.count())
}
