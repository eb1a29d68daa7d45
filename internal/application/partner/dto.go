package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/partner"
	"github.com/mercearia/backend/internal/domain/shared"
)

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	StoreID         uuid.UUID    `json:"-"`
	Name            string       `json:"name" binding:"required,min=1,max=180"`
	CNPJ            string       `json:"cnpj" binding:"max=18"`
	IE              string       `json:"ie" binding:"max=32"`
	Contact         string       `json:"contact" binding:"max=120"`
	Phone           string       `json:"phone" binding:"max=40"`
	Email           string       `json:"email" binding:"omitempty,email"`
	PaymentTermDays int          `json:"payment_term_days" binding:"min=0,max=365"`
	Actor           shared.Actor `json:"-"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	CNPJ            string    `json:"cnpj,omitempty"`
	Contact         string    `json:"contact,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	PaymentTermDays int       `json:"payment_term_days"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToSupplierResponse converts a domain supplier
func ToSupplierResponse(s *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		CNPJ:            s.CNPJ,
		Contact:         s.Contact,
		Phone:           s.Phone,
		Email:           s.Email,
		PaymentTermDays: s.PaymentTermDays,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
	}
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	StoreID uuid.UUID    `json:"-"`
	Name    string       `json:"name" binding:"required,min=1,max=180"`
	CPF     string       `json:"cpf" binding:"max=14"`
	Phone   string       `json:"phone" binding:"max=40"`
	Email   string       `json:"email" binding:"omitempty,email"`
	Actor   shared.Actor `json:"-"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       *string   `json:"cpf,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Points    int       `json:"points"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Phone:     c.Phone,
		Email:     c.Email,
		Points:    c.Points,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}
