package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// LockOrCreate inserts a zero row for (store, product) unless one exists,
// then reads it with SELECT ... FOR UPDATE. Concurrent first moves of one
// product converge on the same row.
func (r *GormStockItemRepository) LockOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockItem, error) {
	db := r.db.WithContext(ctx)
	if err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(inventory.NewStockItem(storeID, productID)).Error; err != nil {
		return nil, err
	}

	var item inventory.StockItem
	if err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByProduct reads the stock row without locking
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a stock row
func (r *GormStockItemRepository) Create(ctx context.Context, item *inventory.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity persists the quantity of a row locked by LockOrCreate
func (r *GormStockItemRepository) UpdateQuantity(ctx context.Context, item *inventory.StockItem) error {
	item.Touch()
	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity":   item.Quantity,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStockMoveRepository implements the append-only move ledger using GORM
type GormStockMoveRepository struct {
	db *gorm.DB
}

// NewGormStockMoveRepository creates a new GormStockMoveRepository
func NewGormStockMoveRepository(db *gorm.DB) *GormStockMoveRepository {
	return &GormStockMoveRepository{db: db}
}

// Create appends a move
func (r *GormStockMoveRepository) Create(ctx context.Context, move *inventory.StockMove) error {
	return r.db.WithContext(ctx).Create(move).Error
}

// FindByOrigin lists the moves tied to an origin in insertion order
func (r *GormStockMoveRepository) FindByOrigin(ctx context.Context, storeID uuid.UUID, origin inventory.Origin) ([]inventory.StockMove, error) {
	var moves []inventory.StockMove
	if err := whereOrigin(r.db.WithContext(ctx).Where("store_id = ?", storeID), origin).
		Order("created_at ASC, id ASC").
		Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

// FindByProduct pages through a product's moves, newest first by default
func (r *GormStockMoveRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMove, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockMove{}).
		Where("store_id = ? AND product_id = ?", storeID, productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var moves []inventory.StockMove
	if err := applyPage(query, filter, StockMoveSortFields, "created_at DESC").Find(&moves).Error; err != nil {
		return nil, 0, err
	}
	return moves, total, nil
}

// FindAllByProduct returns a product's whole ledger in insertion order
func (r *GormStockMoveRepository) FindAllByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]inventory.StockMove, error) {
	var moves []inventory.StockMove
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order("created_at ASC, id ASC").
		Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

// SumQuantity adds up the quantities of moves of a type tied to origin.
// The sum runs over decimals in Go so sqlite's float arithmetic never leaks in.
func (r *GormStockMoveRepository) SumQuantity(ctx context.Context, storeID uuid.UUID, moveType inventory.MoveType, origin inventory.Origin) (decimal.Decimal, error) {
	var quantities []decimal.Decimal
	if err := whereOrigin(r.db.WithContext(ctx).Model(&inventory.StockMove{}).
		Where("store_id = ? AND type = ?", storeID, moveType), origin).
		Pluck("quantity", &quantities).Error; err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, q := range quantities {
		sum = sum.Add(q)
	}
	return sum, nil
}

func whereOrigin(query *gorm.DB, origin inventory.Origin) *gorm.DB {
	query = query.Where("ref_origin = ?", origin.Kind)
	if origin.RefID == nil {
		return query.Where("ref_id IS NULL")
	}
	return query.Where("ref_id = ?", *origin.RefID)
}

// GormInventorySessionRepository implements InventorySessionRepository using GORM
type GormInventorySessionRepository struct {
	db *gorm.DB
}

// NewGormInventorySessionRepository creates a new GormInventorySessionRepository
func NewGormInventorySessionRepository(db *gorm.DB) *GormInventorySessionRepository {
	return &GormInventorySessionRepository{db: db}
}

// FindByIDForStore finds a non-deleted session of the store
func (r *GormInventorySessionRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*inventory.InventorySession, error) {
	return r.find(r.db.WithContext(ctx), storeID, id)
}

// FindByIDForUpdate finds and locks a non-deleted session of the store
func (r *GormInventorySessionRepository) FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*inventory.InventorySession, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), storeID, id)
}

func (r *GormInventorySessionRepository) find(query *gorm.DB, storeID, id uuid.UUID) (*inventory.InventorySession, error) {
	var session inventory.InventorySession
	if err := query.
		Where("store_id = ? AND id = ? AND deleted = ?", storeID, id, false).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Save creates or updates the session header; counts are saved with SaveCount
func (r *GormInventorySessionRepository) Save(ctx context.Context, session *inventory.InventorySession) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error
}

// FindCount finds the count of a product within a session
func (r *GormInventorySessionRepository) FindCount(ctx context.Context, sessionID, productID uuid.UUID) (*inventory.InventoryCount, error) {
	var count inventory.InventoryCount
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		First(&count).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &count, nil
}

// FindCounts lists a session's counts in recording order
func (r *GormInventorySessionRepository) FindCounts(ctx context.Context, sessionID uuid.UUID) ([]inventory.InventoryCount, error) {
	var counts []inventory.InventoryCount
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// SaveCount creates or updates a count
func (r *GormInventorySessionRepository) SaveCount(ctx context.Context, count *inventory.InventoryCount) error {
	return r.db.WithContext(ctx).Save(count).Error
}

// Ensure the repositories implement their interfaces
var (
	_ inventory.StockItemRepository        = (*GormStockItemRepository)(nil)
	_ inventory.StockMoveRepository        = (*GormStockMoveRepository)(nil)
	_ inventory.InventorySessionRepository = (*GormInventorySessionRepository)(nil)
)
