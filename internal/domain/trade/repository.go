package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// PurchaseRepository defines persistence for purchase orders
type PurchaseRepository interface {
	// FindByIDForStore loads the purchase with its items
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Purchase, error)
	// FindByIDForUpdate locks the purchase row and loads its items
	FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*Purchase, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, status PurchaseStatus, filter shared.Filter) ([]Purchase, int64, error)
	// Create inserts the purchase and its items
	Create(ctx context.Context, purchase *Purchase) error
	// Update saves header columns only
	Update(ctx context.Context, purchase *Purchase) error
}

// SaleRepository defines persistence for sales
type SaleRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate locks the sale row and loads its items
	FindByIDForUpdate(ctx context.Context, storeID, id uuid.UUID) (*Sale, error)
	// FindItemForStore resolves a sale line, scoped through its sale
	FindItemForStore(ctx context.Context, storeID, itemID uuid.UUID) (*SaleItem, error)
	Create(ctx context.Context, sale *Sale) error
	// Update saves header columns only
	Update(ctx context.Context, sale *Sale) error
	CreateItem(ctx context.Context, item *SaleItem) error
	DeleteItem(ctx context.Context, item *SaleItem) error
}

// CashRegisterRepository defines persistence for cash registers
type CashRegisterRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*CashRegister, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID) ([]CashRegister, error)
	Save(ctx context.Context, register *CashRegister) error
}
