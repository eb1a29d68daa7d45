package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func TestLoggingHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewLoggingHandler(zap.New(core))
	assert.Empty(t, h.EventTypes())

	storeID := uuid.New()
	evt := &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent("SalePaid", "Sale", uuid.New(), storeID)}
	require.NoError(t, h.Handle(context.Background(), evt))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SalePaid", fields["event_type"])
	assert.Equal(t, storeID.String(), fields["store_id"])
}
