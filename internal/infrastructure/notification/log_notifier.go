package notification

import (
	"context"

	appinventory "github.com/mercearia/backend/internal/application/inventory"
	"go.uber.org/zap"
)

// LogNotifier writes reorder alerts to the log. It stands in for Redis
// when Redis is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendAlert implements appinventory.ReorderNotifier
func (n *LogNotifier) SendAlert(_ context.Context, alert appinventory.ReorderAlert) error {
	n.logger.Warn("product below reorder point",
		zap.String("store_id", alert.StoreID),
		zap.String("product_id", alert.ProductID),
		zap.String("quantity", alert.Quantity),
		zap.String("reorder_point", alert.ReorderPoint),
		zap.String("alert_type", alert.AlertType),
	)
	return nil
}
