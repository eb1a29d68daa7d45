package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics counts checkout, receiving and stock activity
type BusinessMetrics struct {
	salesPaid      *Counter
	salesCancelled *Counter
	saleAmount     *Histogram
	receipts       *Counter
	stockMoves     *Counter
	reorderAlerts  *Counter
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	var err error
	if bm.salesPaid, err = NewCounter(meter, "mercearia.sales.paid", "Sales concluded", "{sale}"); err != nil {
		return nil, err
	}
	if bm.salesCancelled, err = NewCounter(meter, "mercearia.sales.cancelled", "Sales cancelled", "{sale}"); err != nil {
		return nil, err
	}
	if bm.saleAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "mercearia.sales.amount",
		Description: "Total of concluded sales",
		Unit:        "BRL",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.receipts, err = NewCounter(meter, "mercearia.purchases.received", "Purchase orders fully received", "{purchase}"); err != nil {
		return nil, err
	}
	if bm.stockMoves, err = NewCounter(meter, "mercearia.stock.moves", "Stock moves recorded", "{move}"); err != nil {
		return nil, err
	}
	if bm.reorderAlerts, err = NewCounter(meter, "mercearia.stock.reorder_alerts", "Products that reached their reorder point", "{alert}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordSalePaid counts a concluded sale and its total
func (bm *BusinessMetrics) RecordSalePaid(ctx context.Context, storeID uuid.UUID, payment string, total decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrStoreID.String(storeID.String()), AttrPaymentMethod.String(payment)}
	bm.salesPaid.Inc(ctx, attrs...)
	bm.saleAmount.Record(ctx, total.InexactFloat64(), attrs...)
}

// RecordSaleCancelled counts a cancelled sale
func (bm *BusinessMetrics) RecordSaleCancelled(ctx context.Context, storeID uuid.UUID) {
	bm.salesCancelled.Inc(ctx, AttrStoreID.String(storeID.String()))
}

// RecordPurchaseReceived counts a fully received purchase
func (bm *BusinessMetrics) RecordPurchaseReceived(ctx context.Context, storeID uuid.UUID) {
	bm.receipts.Inc(ctx, AttrStoreID.String(storeID.String()))
}

// RecordStockMoves counts moves of one type
func (bm *BusinessMetrics) RecordStockMoves(ctx context.Context, storeID uuid.UUID, moveType string, n int) {
	if n <= 0 {
		return
	}
	bm.stockMoves.Add(ctx, int64(n), AttrStoreID.String(storeID.String()), AttrMoveType.String(moveType))
}

// RecordReorderAlert counts a reorder alert
func (bm *BusinessMetrics) RecordReorderAlert(ctx context.Context, storeID uuid.UUID) {
	bm.reorderAlerts.Inc(ctx, AttrStoreID.String(storeID.String()))
}
