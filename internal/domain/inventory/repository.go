package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockItemRepository defines persistence for stock items
type StockItemRepository interface {
	// LockOrCreate returns the (store, product) row locked for update,
	// creating it at zero first when it does not exist yet
	LockOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*StockItem, error)
	// FindByProduct reads the row without locking; ErrNotFound when missing
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) (*StockItem, error)
	Create(ctx context.Context, item *StockItem) error
	// UpdateQuantity persists the quantity of a locked row
	UpdateQuantity(ctx context.Context, item *StockItem) error
}

// StockMoveRepository is the append-only move ledger
type StockMoveRepository interface {
	Create(ctx context.Context, move *StockMove) error
	FindByOrigin(ctx context.Context, storeID uuid.UUID, origin Origin) ([]StockMove, error)
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID, filter shared.Filter) ([]StockMove, int64, error)
	FindAllByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]StockMove, error)
	// SumQuantity adds up the quantity of moves of a type tied to origin
	SumQuantity(ctx context.Context, storeID uuid.UUID, moveType MoveType, origin Origin) (decimal.Decimal, error)
}

// InventorySessionRepository defines persistence for sessions and their counts
type InventorySessionRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*InventorySession, error)
	// FindByIDForUpdate loads and locks the session row
	FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*InventorySession, error)
	Save(ctx context.Context, session *InventorySession) error
	FindCount(ctx context.Context, sessionID, productID uuid.UUID) (*InventoryCount, error)
	FindCounts(ctx context.Context, sessionID uuid.UUID) ([]InventoryCount, error)
	SaveCount(ctx context.Context, count *InventoryCount) error
}
