// Package event holds the application-level subscribers of the in-process
// event bus.
package event

import (
	"context"

	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes every committed domain event to the log
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

// EventTypes returns no types, so the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle logs the event envelope
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("store_id", event.StoreID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
