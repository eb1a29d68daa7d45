package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseLineInput is one line of a new purchase order
type PurchaseLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	StoreID    uuid.UUID           `json:"-"`
	SupplierID uuid.UUID           `json:"supplier_id" binding:"required"`
	Items      []PurchaseLineInput `json:"items" binding:"required,min=1,dive"`
	Notes      string              `json:"notes" binding:"max=1000"`
	Actor      shared.Actor        `json:"-"`
}

// ReceiptLineInput is one received line. Cost overrides the order cost when set.
type ReceiptLineInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
}

// ReceivePurchaseRequest receives goods against an issued order
type ReceivePurchaseRequest struct {
	StoreID    uuid.UUID          `json:"-"`
	PurchaseID uuid.UUID          `json:"-"`
	Items      []ReceiptLineInput `json:"items" binding:"required,min=1,dive"`
	Actor      shared.Actor       `json:"-"`
}

// PurchaseItemResponse is the API view of a purchase line
type PurchaseItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// PurchaseResponse is the API view of a purchase order
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	SupplierID    uuid.UUID              `json:"supplier_id"`
	Status        string                 `json:"status"`
	ExpectedTotal decimal.Decimal        `json:"expected_total"`
	ReceivedTotal decimal.Decimal        `json:"received_total"`
	Notes         *string                `json:"notes,omitempty"`
	IssuedAt      *time.Time             `json:"issued_at,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	Items         []PurchaseItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToPurchaseResponse converts a domain purchase
func ToPurchaseResponse(p *trade.Purchase) *PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Cost:      it.Cost,
			Discount:  it.Discount,
			Total:     it.Total,
		})
	}
	return &PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		Status:        p.Status.String(),
		ExpectedTotal: p.ExpectedTotal,
		ReceivedTotal: p.ReceivedTotal,
		Notes:         p.Notes,
		IssuedAt:      p.IssuedAt,
		ReceivedAt:    p.ReceivedAt,
		CancelledAt:   p.CancelledAt,
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ReceiptResult is what a receipt did to the order
type ReceiptResult struct {
	Purchase *PurchaseResponse `json:"purchase"`
	Received decimal.Decimal   `json:"received_quantity"`
	// PayableID is set when this receipt completed the order and generated its payable
	PayableID *uuid.UUID `json:"payable_id,omitempty"`
}

// OpenSaleRequest opens a checkout
type OpenSaleRequest struct {
	StoreID        uuid.UUID    `json:"-"`
	CashRegisterID *uuid.UUID   `json:"cash_register_id,omitempty"`
	Actor          shared.Actor `json:"-"`
}

// AddSaleItemRequest adds a product to an open sale
type AddSaleItemRequest struct {
	StoreID   uuid.UUID       `json:"-"`
	SaleID    uuid.UUID       `json:"-"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Actor     shared.Actor    `json:"-"`
}

// RemoveSaleItemRequest removes a line from an open sale
type RemoveSaleItemRequest struct {
	StoreID uuid.UUID    `json:"-"`
	SaleID  uuid.UUID    `json:"-"`
	ItemID  uuid.UUID    `json:"-"`
	Actor   shared.Actor `json:"-"`
}

// PaySaleRequest concludes a sale
type PaySaleRequest struct {
	StoreID    uuid.UUID           `json:"-"`
	SaleID     uuid.UUID           `json:"-"`
	Payment    trade.PaymentMethod `json:"payment" binding:"required,oneof=dinheiro cartao pix misto"`
	AmountPaid decimal.Decimal     `json:"amount_paid"`
	CustomerID *uuid.UUID          `json:"customer_id,omitempty"`
	Actor      shared.Actor        `json:"-"`
}

// CancelSaleRequest cancels an open or concluded sale
type CancelSaleRequest struct {
	StoreID uuid.UUID    `json:"-"`
	SaleID  uuid.UUID    `json:"-"`
	Reason  string       `json:"reason" binding:"max=500"`
	Actor   shared.Actor `json:"-"`
}

// SaleItemResponse is the API view of a sale line
type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	PromoID   *uuid.UUID      `json:"promo_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
}

// SaleResponse is the API view of a sale
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	Status         string             `json:"status"`
	CashRegisterID *uuid.UUID         `json:"cash_register_id,omitempty"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	Payment        *string            `json:"payment,omitempty"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	Change         decimal.Decimal    `json:"change"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason   *string            `json:"cancel_reason,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	CreatedBy      *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain sale
func ToSaleResponse(s *trade.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for i := range s.Items {
		items = append(items, ToSaleItemResponse(&s.Items[i]))
	}
	resp := &SaleResponse{
		ID:             s.ID,
		Status:         s.Status.String(),
		CashRegisterID: s.CashRegisterID,
		CustomerID:     s.CustomerID,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Total:          s.Total,
		AmountPaid:     s.AmountPaid,
		Change:         s.Change,
		PaidAt:         s.PaidAt,
		CancelledAt:    s.CancelledAt,
		CancelReason:   s.CancelReason,
		Items:          items,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
	}
	if s.Payment != nil {
		p := string(*s.Payment)
		resp.Payment = &p
	}
	return resp
}

// ToSaleItemResponse converts a domain sale line
func ToSaleItemResponse(it *trade.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Discount:  it.Discount,
		PromoID:   it.PromoID,
		Total:     it.Total,
	}
}

// CreateCashRegisterRequest creates a till
type CreateCashRegisterRequest struct {
	StoreID uuid.UUID    `json:"-"`
	Name    string       `json:"name" binding:"required,max=60"`
	Actor   shared.Actor `json:"-"`
}

// CashRegisterBalanceRequest opens or closes a till with a counted balance
type CashRegisterBalanceRequest struct {
	StoreID        uuid.UUID       `json:"-"`
	CashRegisterID uuid.UUID       `json:"-"`
	Balance        decimal.Decimal `json:"balance"`
	Actor          shared.Actor    `json:"-"`
}

// CashRegisterResponse is the API view of a till
type CashRegisterResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Open           bool            `json:"open"`
	OpenedAt       *time.Time      `json:"opened_at,omitempty"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// ToCashRegisterResponse converts a domain cash register
func ToCashRegisterResponse(r *trade.CashRegister) *CashRegisterResponse {
	return &CashRegisterResponse{
		ID:             r.ID,
		Name:           r.Name,
		Open:           r.Open,
		OpenedAt:       r.OpenedAt,
		ClosedAt:       r.ClosedAt,
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
	}
}
