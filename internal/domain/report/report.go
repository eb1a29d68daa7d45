// Package report defines read models for the store dashboards. They are
// computed on demand from concluded sales and stock rows.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTurnoverLimit caps the stock turnover ranking
const DefaultTurnoverLimit = 50

// DailySales is the total of concluded sales on one UTC day
type DailySales struct {
	Day   string          `json:"day"` // YYYY-MM-DD
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// ProductTurnover ranks a product by quantity sold
type ProductTurnover struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ReorderLine is a product at or below its reorder point
type ReorderLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// SaleTotal is the raw row behind DailySales
type SaleTotal struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}

// SoldLine is the raw row behind ProductTurnover
type SoldLine struct {
	ProductID uuid.UUID
	Name      string
	Quantity  decimal.Decimal
	Total     decimal.Decimal
}

// ReportRepository reads the raw rows; aggregation happens in Go so decimal
// sums keep their exact precision on every database
type ReportRepository interface {
	// ConcludedSaleTotals lists concluded sales created in [from, to)
	ConcludedSaleTotals(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]SaleTotal, error)
	// ConcludedSaleLines lists lines of concluded sales for non-deleted products
	ConcludedSaleLines(ctx context.Context, storeID uuid.UUID) ([]SoldLine, error)
	// ReorderCandidates lists usable products with a positive reorder point and their stock
	ReorderCandidates(ctx context.Context, storeID uuid.UUID) ([]ReorderLine, error)
}
