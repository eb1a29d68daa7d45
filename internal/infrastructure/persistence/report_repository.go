package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/report"
	"github.com/mercearia/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormReportRepository reads the raw rows behind the dashboards
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// ConcludedSaleTotals lists concluded sales created in [from, to)
func (r *GormReportRepository) ConcludedSaleTotals(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]report.SaleTotal, error) {
	var rows []report.SaleTotal
	if err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Select("created_at, total").
		Where("store_id = ? AND status = ? AND deleted = ?", storeID, trade.SaleStatusCompleted, false).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ConcludedSaleLines lists the lines of concluded sales of non-deleted products
func (r *GormReportRepository) ConcludedSaleLines(ctx context.Context, storeID uuid.UUID) ([]report.SoldLine, error) {
	var rows []report.SoldLine
	if err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.product_id, products.name, sale_items.quantity, sale_items.total").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.store_id = ? AND sales.status = ? AND sales.deleted = ?", storeID, trade.SaleStatusCompleted, false).
		Where("products.deleted = ?", false).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReorderCandidates lists usable products with a positive reorder point and
// their current stock, zero when they never moved
func (r *GormReportRepository) ReorderCandidates(ctx context.Context, storeID uuid.UUID) ([]report.ReorderLine, error) {
	var rows []report.ReorderLine
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("products.id AS product_id, products.name, COALESCE(stock_items.quantity, 0) AS quantity, products.reorder_point, products.min_stock").
		Joins("LEFT JOIN stock_items ON stock_items.product_id = products.id AND stock_items.store_id = products.store_id").
		Where("products.store_id = ? AND products.deleted = ? AND products.active = ?", storeID, false, true).
		Where("products.reorder_point > 0").
		Order("products.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
