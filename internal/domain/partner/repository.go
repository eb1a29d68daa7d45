package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Supplier, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Supplier, int64, error)
	Save(ctx context.Context, supplier *Supplier) error
}

// CustomerRepository defines persistence for customers
type CustomerRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Customer, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
}
