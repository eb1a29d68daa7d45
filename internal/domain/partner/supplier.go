package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// Supplier provides goods to a store; PaymentTermDays sets the due date of
// payables generated by purchases.
type Supplier struct {
	shared.StoreAggregateRoot
	shared.Lifecycle
	Name            string `gorm:"type:varchar(180);not null"`
	CNPJ            string `gorm:"type:varchar(18)"`
	IE              string `gorm:"type:varchar(32)"`
	Contact         string `gorm:"type:varchar(120)"`
	Phone           string `gorm:"type:varchar(40)"`
	Email           string `gorm:"type:varchar(180)"`
	PaymentTermDays int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierInput carries supplier fields
type SupplierInput struct {
	Name            string
	CNPJ            string
	IE              string
	Contact         string
	Phone           string
	Email           string
	PaymentTermDays int
}

// NewSupplier creates an active supplier; the name is unique per store
func NewSupplier(storeID uuid.UUID, in SupplierInput, createdBy *uuid.UUID) (*Supplier, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Supplier name is required")
	}
	if in.PaymentTermDays < 0 {
		return nil, shared.NewFieldError("INVALID_TERM", "payment_term_days", "Payment term cannot be negative")
	}
	return &Supplier{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Lifecycle:          shared.NewLifecycle(),
		Name:               name,
		CNPJ:               strings.TrimSpace(in.CNPJ),
		IE:                 strings.TrimSpace(in.IE),
		Contact:            strings.TrimSpace(in.Contact),
		Phone:              strings.TrimSpace(in.Phone),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		PaymentTermDays:    in.PaymentTermDays,
	}, nil
}

// Deactivate disables the supplier for new purchase orders
func (s *Supplier) Deactivate() {
	s.Active = false
	s.Touch()
}
