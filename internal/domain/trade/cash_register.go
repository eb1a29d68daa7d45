package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CashRegister is a till. Sales may reference one of the store's registers.
type CashRegister struct {
	shared.BaseEntity
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(60);not null"`
	Open           bool            `gorm:"not null;default:false"`
	OpenedAt       *time.Time
	ClosedAt       *time.Time
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// NewCashRegister creates a closed register
func NewCashRegister(storeID uuid.UUID, name string) (*CashRegister, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Register name is required")
	}
	return &CashRegister{
		BaseEntity:     shared.NewBaseEntity(),
		StoreID:        storeID,
		Name:           valueobject.Truncate(name, 60),
		OpeningBalance: valueobject.ZeroMoney(),
		ClosingBalance: valueobject.ZeroMoney(),
	}, nil
}

// OpenWith opens the register with a float
func (r *CashRegister) OpenWith(balance decimal.Decimal) error {
	if r.Open {
		return shared.ErrInvalidState.WithMessage("Cash register is already open")
	}
	balance = valueobject.QuantizeMoney(balance)
	if balance.IsNegative() {
		return shared.NewFieldError("INVALID_AMOUNT", "opening_balance", "Opening balance cannot be negative")
	}
	now := time.Now().UTC()
	r.Open = true
	r.OpenedAt = &now
	r.ClosedAt = nil
	r.OpeningBalance = balance
	r.ClosingBalance = valueobject.ZeroMoney()
	r.Touch()
	return nil
}

// Close closes the register with the counted balance
func (r *CashRegister) Close(balance decimal.Decimal) error {
	if !r.Open {
		return shared.ErrInvalidState.WithMessage("Cash register is not open")
	}
	balance = valueobject.QuantizeMoney(balance)
	if balance.IsNegative() {
		return shared.NewFieldError("INVALID_AMOUNT", "closing_balance", "Closing balance cannot be negative")
	}
	now := time.Now().UTC()
	r.Open = false
	r.ClosedAt = &now
	r.ClosingBalance = balance
	r.Touch()
	return nil
}
