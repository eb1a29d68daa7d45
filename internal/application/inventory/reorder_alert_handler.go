package inventory

import (
	"context"
	"fmt"

	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReorderAlert is what a notifier receives when a product needs reordering
type ReorderAlert struct {
	StoreID      string `json:"store_id"`
	ProductID    string `json:"product_id"`
	Quantity     string `json:"quantity"`
	ReorderPoint string `json:"reorder_point"`
	AlertType    string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// ReorderNotifier delivers reorder alerts
type ReorderNotifier interface {
	SendAlert(ctx context.Context, alert ReorderAlert) error
}

// ReorderAlertHandler consumes StockBelowReorderPoint events
type ReorderAlertHandler struct {
	logger   *zap.Logger
	notifier ReorderNotifier
}

// NewReorderAlertHandler creates a handler that logs alerts
func NewReorderAlertHandler(logger *zap.Logger) *ReorderAlertHandler {
	return &ReorderAlertHandler{logger: logger}
}

// WithNotifier sets the notifier alerts are forwarded to
func (h *ReorderAlertHandler) WithNotifier(n ReorderNotifier) *ReorderAlertHandler {
	h.notifier = n
	return h
}

// EventTypes implements shared.EventHandler
func (h *ReorderAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowReorderPoint}
}

// Handle implements shared.EventHandler
func (h *ReorderAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowReorderPointEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowReorderPoint, event.EventType())
	}

	alert := ReorderAlert{
		StoreID:      e.StoreID().String(),
		ProductID:    e.ProductID.String(),
		Quantity:     e.Quantity.String(),
		ReorderPoint: e.ReorderPoint.String(),
		AlertType:    "low_stock",
	}
	if e.Quantity.IsZero() {
		alert.AlertType = "out_of_stock"
	}

	h.logger.Warn("stock reached reorder point",
		zap.String("store_id", alert.StoreID),
		zap.String("product_id", alert.ProductID),
		zap.String("quantity", alert.Quantity),
		zap.String("reorder_point", alert.ReorderPoint),
		zap.String("alert_type", alert.AlertType),
	)

	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		return fmt.Errorf("send reorder alert for product %s: %w", alert.ProductID, err)
	}
	return nil
}

var _ shared.EventHandler = (*ReorderAlertHandler)(nil)
