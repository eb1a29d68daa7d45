package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingPublisher(t *testing.T) {
	p := NewRecordingPublisher()
	storeID := uuid.New()

	require.NoError(t, p.Publish(context.Background(), NewTestEvent("SalePaid", storeID), NewTestEvent("SaleCancelled", storeID)))
	assert.Equal(t, []string{"SalePaid", "SaleCancelled"}, p.Types())
	assert.Len(t, p.OfType("SalePaid"), 1)

	p.SetError(assert.AnError)
	assert.ErrorIs(t, p.Publish(context.Background(), NewTestEvent("SalePaid", storeID)), assert.AnError)
	assert.Len(t, p.Events(), 3)

	p.Reset()
	assert.Empty(t, p.Events())
}

func TestMockEventHandler(t *testing.T) {
	handler := NewMockEventHandler("SalePaid")
	event := NewTestEvent("SalePaid", uuid.New())

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, []string{"SalePaid"}, handler.EventTypes())
	assert.Equal(t, 1, handler.HandledCount())
	assert.Same(t, event, handler.Handled()[0])

	handler.SetError(assert.AnError)
	assert.ErrorIs(t, handler.Handle(context.Background(), event), assert.AnError)
}

func TestNewTestEvent(t *testing.T) {
	storeID := uuid.New()
	event := NewTestEvent("StockBelowReorderPoint", storeID)

	assert.Equal(t, "StockBelowReorderPoint", event.EventType())
	assert.Equal(t, storeID, event.StoreID())
	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.False(t, event.OccurredAt().IsZero())
}
