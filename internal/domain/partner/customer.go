package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// Customer is an identified buyer; CPF is unique per store when present
type Customer struct {
	shared.StoreAggregateRoot
	shared.Lifecycle
	Name   string  `gorm:"type:varchar(180);not null;index"`
	CPF    *string `gorm:"type:varchar(14);index"`
	Phone  string  `gorm:"type:varchar(40)"`
	Email  string  `gorm:"type:varchar(180)"`
	Points int     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer
func NewCustomer(storeID uuid.UUID, name, cpf, phone, email string, createdBy *uuid.UUID) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Customer name is required")
	}
	c := &Customer{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Lifecycle:          shared.NewLifecycle(),
		Name:               name,
		Phone:              strings.TrimSpace(phone),
		Email:              strings.ToLower(strings.TrimSpace(email)),
	}
	if cpf = strings.TrimSpace(cpf); cpf != "" {
		c.CPF = &cpf
	}
	return c, nil
}
