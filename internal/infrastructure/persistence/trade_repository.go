package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByIDForStore finds a purchase of the store with its items
func (r *GormPurchaseRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Purchase, error) {
	return r.find(r.db.WithContext(ctx), storeID, id)
}

// FindByIDForUpdate locks the purchase row and loads its items
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*trade.Purchase, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), storeID, id)
}

func (r *GormPurchaseRepository) find(query *gorm.DB, storeID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := query.
		Preload("Items", orderedItems).
		Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAllForStore pages through the store's purchases, optionally by status
func (r *GormPurchaseRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, status trade.PurchaseStatus, filter shared.Filter) ([]trade.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Purchase{}).
		Where("store_id = ? AND deleted = ?", storeID, false)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var purchases []trade.Purchase
	if err := applyPage(query, filter, PurchaseSortFields, "created_at DESC").
		Preload("Items", orderedItems).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// Create inserts the purchase together with its items
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// Update saves the purchase header; items never change after creation
func (r *GormPurchaseRepository) Update(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(purchase).Error
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByIDForStore finds a sale of the store with its items
func (r *GormSaleRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Sale, error) {
	return r.find(r.db.WithContext(ctx), storeID, id)
}

// FindByIDForUpdate locks the sale row and loads its items
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*trade.Sale, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), storeID, id)
}

func (r *GormSaleRepository) find(query *gorm.DB, storeID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := query.
		Preload("Items", orderedItems).
		Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindItemForStore resolves a sale line through its sale's store
func (r *GormSaleRepository) FindItemForStore(ctx context.Context, storeID, itemID uuid.UUID) (*trade.SaleItem, error) {
	var item trade.SaleItem
	if err := r.db.WithContext(ctx).
		Select("sale_items.*").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.store_id = ? AND sale_items.id = ?", storeID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a sale and any items it already has
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// Update saves the sale header; items go through CreateItem and DeleteItem
func (r *GormSaleRepository) Update(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sale).Error
}

// CreateItem inserts a sale line
func (r *GormSaleRepository) CreateItem(ctx context.Context, item *trade.SaleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// DeleteItem removes a sale line
func (r *GormSaleRepository) DeleteItem(ctx context.Context, item *trade.SaleItem) error {
	result := r.db.WithContext(ctx).Delete(&trade.SaleItem{}, "id = ? AND sale_id = ?", item.ID, item.SaleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByIDForStore finds a cash register of the store
func (r *GormCashRegisterRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.CashRegister, error) {
	var register trade.CashRegister
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&register).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindAllForStore lists the store's cash registers by name
func (r *GormCashRegisterRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]trade.CashRegister, error) {
	var registers []trade.CashRegister
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&registers).Error; err != nil {
		return nil, err
	}
	return registers, nil
}

// Save creates or updates a cash register
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *trade.CashRegister) error {
	return r.db.WithContext(ctx).Save(register).Error
}

// Ensure the repositories implement their interfaces
var (
	_ trade.PurchaseRepository     = (*GormPurchaseRepository)(nil)
	_ trade.SaleRepository         = (*GormSaleRepository)(nil)
	_ trade.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
)
