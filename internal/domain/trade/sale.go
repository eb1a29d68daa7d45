package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a checkout
type SaleStatus string

const (
	SaleStatusOpen      SaleStatus = "aberta"
	SaleStatusCompleted SaleStatus = "concluida"
	SaleStatusCancelled SaleStatus = "cancelada"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "dinheiro"
	PaymentCard  PaymentMethod = "cartao"
	PaymentPix   PaymentMethod = "pix"
	PaymentMixed PaymentMethod = "misto"
)

// IsValid returns true if the payment method is accepted
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix, PaymentMixed:
		return true
	}
	return false
}

// DefaultCancelReason is recorded on return moves when none is given
const DefaultCancelReason = "Cancelamento de venda"

// SaleItem is one checkout line
type SaleItem struct {
	shared.BaseEntity
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PromoID   *uuid.UUID      `gorm:"type:uuid"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// LineGross returns money(unit price × quantity)
func (i *SaleItem) LineGross() decimal.Decimal {
	return valueobject.QuantizeMoney(i.UnitPrice.Mul(i.Quantity))
}

// Sale is a checkout aggregate. Subtotal, Discount and Total are maintained
// incrementally by AddItem and RemoveItem, which are exact inverses.
type Sale struct {
	shared.StoreAggregateRoot
	Deleted        bool            `gorm:"not null;default:false;index"`
	CashRegisterID *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;default:'aberta';index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Payment        *PaymentMethod  `gorm:"type:varchar(20)"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Change         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaidAt         *time.Time
	CancelledAt    *time.Time
	CancelReason   *string    `gorm:"type:varchar(200)"`
	Items          []SaleItem `gorm:"foreignKey:SaleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale opens an empty sale
func NewSale(storeID uuid.UUID, cashRegisterID *uuid.UUID, operator *uuid.UUID) *Sale {
	return &Sale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, operator),
		CashRegisterID:     cashRegisterID,
		Status:             SaleStatusOpen,
		Subtotal:           valueobject.ZeroMoney(),
		Discount:           valueobject.ZeroMoney(),
		Total:              valueobject.ZeroMoney(),
		AmountPaid:         valueobject.ZeroMoney(),
		Change:             valueobject.ZeroMoney(),
		Items:              make([]SaleItem, 0),
	}
}

// EnsureOpen fails when the sale is already finished
func (s *Sale) EnsureOpen() error {
	if s.Status != SaleStatusOpen {
		return shared.ErrInvalidState.WithMessage("Sale is not open")
	}
	return nil
}

// AddItem appends a priced line and adds its gross, discount and total to the
// sale aggregates
func (s *Sale) AddItem(productID uuid.UUID, qty, unitPrice, discount decimal.Decimal, promoID *uuid.UUID) (*SaleItem, error) {
	if err := s.EnsureOpen(); err != nil {
		return nil, err
	}
	qty = valueobject.QuantizeQty(qty)
	if !qty.IsPositive() {
		return nil, shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive")
	}
	unitPrice = valueobject.QuantizeMoney(unitPrice)
	if unitPrice.IsNegative() {
		return nil, shared.NewFieldError("INVALID_PRICE", "unit_price", "Unit price cannot be negative")
	}
	discount = valueobject.QuantizeMoney(discount)
	if discount.IsNegative() {
		return nil, shared.NewFieldError("INVALID_DISCOUNT", "discount", "Discount cannot be negative")
	}

	item := SaleItem{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     s.ID,
		ProductID:  productID,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		Discount:   discount,
		PromoID:    promoID,
	}
	gross := item.LineGross()
	item.Total = valueobject.QuantizeMoney(gross.Sub(discount))

	s.Subtotal = valueobject.QuantizeMoney(s.Subtotal.Add(gross))
	s.Discount = valueobject.QuantizeMoney(s.Discount.Add(item.Discount))
	s.Total = valueobject.QuantizeMoney(s.Total.Add(item.Total))
	s.Items = append(s.Items, item)
	s.Touch()
	return &s.Items[len(s.Items)-1], nil
}

// RemoveItem drops a line and subtracts the same values AddItem added
func (s *Sale) RemoveItem(itemID uuid.UUID) (*SaleItem, error) {
	if err := s.EnsureOpen(); err != nil {
		return nil, err
	}
	for idx := range s.Items {
		if s.Items[idx].ID != itemID {
			continue
		}
		item := s.Items[idx]
		s.Subtotal = valueobject.QuantizeMoney(s.Subtotal.Sub(item.LineGross()))
		s.Discount = valueobject.QuantizeMoney(s.Discount.Sub(item.Discount))
		s.Total = valueobject.QuantizeMoney(s.Total.Sub(item.Total))
		s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
		s.Touch()
		return &item, nil
	}
	return nil, shared.ErrNotFound.WithMessage("Sale item not found")
}

// Pay concludes the sale. Change is max(paid − total, 0).
func (s *Sale) Pay(method PaymentMethod, paid decimal.Decimal, customerID *uuid.UUID, actor *uuid.UUID) error {
	if err := s.EnsureOpen(); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return shared.ErrInvalidState.WithMessage("Sale has no items")
	}
	if !method.IsValid() {
		return shared.NewFieldError("INVALID_PAYMENT_METHOD", "payment", "Invalid payment method")
	}
	paid = valueobject.QuantizeMoney(paid)
	if paid.IsNegative() {
		return shared.NewFieldError("INVALID_AMOUNT", "amount_paid", "Amount paid cannot be negative")
	}

	now := time.Now().UTC()
	s.Payment = &method
	s.AmountPaid = paid
	s.Change = decimal.Max(paid.Sub(s.Total), decimal.Zero).Round(valueobject.MoneyPlaces)
	if customerID != nil {
		s.CustomerID = customerID
	}
	s.Status = SaleStatusCompleted
	s.PaidAt = &now
	s.MarkUpdatedBy(actor)
	s.AddDomainEvent(NewSalePaidEvent(s))
	return nil
}

// Cancel moves an open or concluded sale to cancelled. It returns whether
// return moves must be recorded for its lines: that is the case whenever the
// sale has items and a positive total, including sales that were never paid.
func (s *Sale) Cancel(reason string, actor *uuid.UUID) (bool, error) {
	if s.Status != SaleStatusOpen && s.Status != SaleStatusCompleted {
		return false, shared.ErrInvalidState.WithMessage("Sale cannot be cancelled")
	}
	returnStock := len(s.Items) > 0 && s.Total.IsPositive()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}
	reason = valueobject.Truncate(reason, 200)

	now := time.Now().UTC()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = &reason
	s.MarkUpdatedBy(actor)
	s.AddDomainEvent(NewSaleCancelledEvent(s, returnStock))
	return returnStock, nil
}
