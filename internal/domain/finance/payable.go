package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Payable is an amount owed to a supplier. At most one exists per source
// document.
type Payable struct {
	shared.BaseEntity
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Origin     SourceType      `gorm:"type:varchar(30);not null;uniqueIndex:uq_payables_origin,priority:1"`
	RefID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payables_origin,priority:2"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate    time.Time       `gorm:"not null;index"`
	Status     Status          `gorm:"type:varchar(20);not null;default:'aberto';index"`
	PaidAt     *time.Time
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Payable) TableName() string {
	return "payables"
}

// NewPurchasePayable creates the payable of a fully received purchase, due
// termDays after now
func NewPurchasePayable(storeID, purchaseID uuid.UUID, supplierID *uuid.UUID, amount decimal.Decimal, termDays int, now time.Time, createdBy *uuid.UUID) (*Payable, error) {
	amount = valueobject.QuantizeMoney(amount)
	if amount.IsNegative() {
		return nil, shared.NewFieldError("INVALID_AMOUNT", "amount", "Amount cannot be negative")
	}
	if termDays < 0 {
		termDays = 0
	}
	return &Payable{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		Origin:     SourcePurchase,
		RefID:      purchaseID,
		SupplierID: supplierID,
		Amount:     amount,
		DueDate:    now.UTC().AddDate(0, 0, termDays),
		Status:     StatusOpen,
		CreatedBy:  createdBy,
	}, nil
}

// Settle marks the payable as paid
func (p *Payable) Settle() error {
	if p.Status != StatusOpen {
		return shared.ErrInvalidState.WithMessage("Payable is not open")
	}
	now := time.Now().UTC()
	p.Status = StatusPaid
	p.PaidAt = &now
	p.Touch()
	return nil
}

// Cancel voids an open payable
func (p *Payable) Cancel() error {
	if p.Status != StatusOpen {
		return shared.ErrInvalidState.WithMessage("Payable is not open")
	}
	p.Status = StatusCancelled
	p.Touch()
	return nil
}
