package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForStore finds a non-deleted category of the store
func (r *GormCategoryRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForStore lists the store's non-deleted categories by name
func (r *GormCategoryRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND deleted = ?", storeID, false).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForStore finds a non-deleted product of the store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	return firstProduct(r.db.WithContext(ctx).Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false))
}

// FindForStock finds a product of the store even when it was deleted
func (r *GormProductRepository) FindForStock(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	return firstProduct(r.db.WithContext(ctx).Where("store_id = ? AND id = ?", storeID, id))
}

// FindByEAN finds a non-deleted product by barcode
func (r *GormProductRepository) FindByEAN(ctx context.Context, storeID uuid.UUID, ean string) (*catalog.Product, error) {
	return firstProduct(r.db.WithContext(ctx).Where("store_id = ? AND ean = ? AND deleted = ?", storeID, strings.TrimSpace(ean), false))
}

func firstProduct(query *gorm.DB) (*catalog.Product, error) {
	var product catalog.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds the non-deleted products among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id IN ? AND deleted = ?", storeID, ids, false).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAllForStore lists non-deleted products, searching name, SKU and EAN
func (r *GormProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("store_id = ? AND deleted = ?", storeID, false)
	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR ean LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []catalog.Product
	if err := applyPage(query, filter, ProductSortFields, "name ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create inserts a product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateColumns persists the listed columns plus the update stamp
func (r *GormProductRepository) UpdateColumns(ctx context.Context, product *catalog.Product, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	product.Touch()
	cols := make([]any, 0, len(columns)+1)
	for _, c := range columns[1:] {
		cols = append(cols, c)
	}
	cols = append(cols, "updated_at", "updated_by")
	result := r.db.WithContext(ctx).
		Model(product).
		Where("store_id = ?", product.StoreID).
		Select(columns[0], cols...).
		Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateCost writes the weighted-average cost of a product
func (r *GormProductRepository) UpdateCost(ctx context.Context, storeID, productID uuid.UUID, cost decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("store_id = ? AND id = ?", storeID, productID).
		Updates(map[string]any{
			"cost_price": cost,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GormPriceVersionRepository implements PriceVersionRepository using GORM.
// Versions are only ever inserted.
type GormPriceVersionRepository struct {
	db *gorm.DB
}

// NewGormPriceVersionRepository creates a new GormPriceVersionRepository
func NewGormPriceVersionRepository(db *gorm.DB) *GormPriceVersionRepository {
	return &GormPriceVersionRepository{db: db}
}

// Create appends a price version
func (r *GormPriceVersionRepository) Create(ctx context.Context, pv *catalog.PriceVersion) error {
	return r.db.WithContext(ctx).Create(pv).Error
}

// FindByProduct lists a product's price history, newest first
func (r *GormPriceVersionRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]catalog.PriceVersion, error) {
	var versions []catalog.PriceVersion
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("valid_from DESC, created_at DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// GormPromoRepository implements PromoRepository using GORM
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GormPromoRepository
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// FindByIDForStore finds a non-deleted promo of the store
func (r *GormPromoRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Promo, error) {
	var promo catalog.Promo
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false).
		First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// FindApplicable returns the promo valid at `at` with the lowest priority,
// ties broken by id, or nil when none applies
func (r *GormPromoRepository) FindApplicable(ctx context.Context, storeID uuid.UUID, at time.Time) (*catalog.Promo, error) {
	var promos []catalog.Promo
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND deleted = ? AND active = ?", storeID, false, true).
		Where("valid_from <= ?", at).
		Where("valid_until IS NULL OR valid_until >= ?", at).
		Order("priority ASC, id ASC").
		Limit(1).
		Find(&promos).Error; err != nil {
		return nil, err
	}
	if len(promos) == 0 {
		return nil, nil
	}
	return &promos[0], nil
}

// FindAllForStore lists the store's non-deleted promos in priority order
func (r *GormPromoRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]catalog.Promo, error) {
	var promos []catalog.Promo
	query := r.db.WithContext(ctx).Where("store_id = ? AND deleted = ?", storeID, false)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("priority ASC, id ASC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// Save creates or updates a promo
func (r *GormPromoRepository) Save(ctx context.Context, promo *catalog.Promo) error {
	db := r.db.WithContext(ctx)
	priority := promo.Priority
	if err := db.Save(promo).Error; err != nil {
		return err
	}
	// gorm substitutes the column default for a zero priority on insert
	if priority == 0 && promo.Priority != 0 {
		promo.Priority = 0
		return db.Model(promo).UpdateColumn("priority", 0).Error
	}
	return nil
}

// Ensure the repositories implement their interfaces
var (
	_ catalog.CategoryRepository     = (*GormCategoryRepository)(nil)
	_ catalog.ProductRepository      = (*GormProductRepository)(nil)
	_ catalog.PriceVersionRepository = (*GormPriceVersionRepository)(nil)
	_ catalog.PromoRepository        = (*GormPromoRepository)(nil)
)
