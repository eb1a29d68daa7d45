package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Receivable is an amount owed by a customer. No checkout path creates one
// yet; they only take part in the cash flow summary.
type Receivable struct {
	shared.BaseEntity
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Origin     SourceType      `gorm:"type:varchar(30);not null"`
	RefID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate    time.Time       `gorm:"not null;index"`
	Status     Status          `gorm:"type:varchar(20);not null;default:'aberto';index"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Receivable) TableName() string {
	return "receivables"
}

// NewReceivable creates an open receivable
func NewReceivable(storeID uuid.UUID, origin SourceType, refID uuid.UUID, customerID *uuid.UUID, amount decimal.Decimal, due time.Time, createdBy *uuid.UUID) (*Receivable, error) {
	amount = valueobject.QuantizeMoney(amount)
	if amount.IsNegative() {
		return nil, shared.NewFieldError("INVALID_AMOUNT", "amount", "Amount cannot be negative")
	}
	return &Receivable{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		Origin:     origin,
		RefID:      refID,
		CustomerID: customerID,
		Amount:     amount,
		DueDate:    due.UTC(),
		Status:     StatusOpen,
		CreatedBy:  createdBy,
	}, nil
}
