package unitofwork

import (
	"context"

	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishCommitted hands events to publisher once their transaction has
// committed. Publishing errors are logged and never undo the operation.
func PublishCommitted(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events ...shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
