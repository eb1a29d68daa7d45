package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PayableRepository defines persistence for payables
type PayableRepository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Payable, error)
	ExistsForSource(ctx context.Context, storeID uuid.UUID, origin SourceType, refID uuid.UUID) (bool, error)
	FindBySource(ctx context.Context, storeID uuid.UUID, origin SourceType, refID uuid.UUID) ([]Payable, error)
	// FindDueBetween returns payables due in [from, to)
	FindDueBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]Payable, error)
	Save(ctx context.Context, payable *Payable) error
}

// ReceivableRepository defines persistence for receivables
type ReceivableRepository interface {
	// FindDueBetween returns receivables due in [from, to)
	FindDueBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]Receivable, error)
	Save(ctx context.Context, receivable *Receivable) error
}
