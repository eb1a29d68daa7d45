package event

import (
	"context"

	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/mercearia/backend/internal/infrastructure/telemetry"
)

// MetricsHandler turns committed events into business metrics
type MetricsHandler struct {
	metrics *telemetry.BusinessMetrics
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(metrics *telemetry.BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes lists the events that carry metric data
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeSalePaid,
		trade.EventTypeSaleCancelled,
		trade.EventTypePurchaseReceived,
		inventory.EventTypeStockBelowReorderPoint,
	}
}

// Handle records the event. Unknown events are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.SalePaidEvent:
		h.metrics.RecordSalePaid(ctx, e.StoreID(), string(e.Payment), e.Total)
		h.metrics.RecordStockMoves(ctx, e.StoreID(), inventory.MoveTypeSaleOut.String(), e.Items)
	case *trade.SaleCancelledEvent:
		h.metrics.RecordSaleCancelled(ctx, e.StoreID())
	case *trade.PurchaseReceivedEvent:
		h.metrics.RecordPurchaseReceived(ctx, e.StoreID())
	case *inventory.StockBelowReorderPointEvent:
		h.metrics.RecordReorderAlert(ctx, e.StoreID())
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
