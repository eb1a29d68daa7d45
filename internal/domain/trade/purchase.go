package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the status of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusDraft             PurchaseStatus = "rascunho"
	PurchaseStatusIssued            PurchaseStatus = "emitida"
	PurchaseStatusPartiallyReceived PurchaseStatus = "parcialmente_recebida"
	PurchaseStatusReceived          PurchaseStatus = "recebida"
	PurchaseStatusCancelled         PurchaseStatus = "cancelada"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusDraft, PurchaseStatusIssued, PurchaseStatusPartiallyReceived,
		PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseStatusDraft:
		return target == PurchaseStatusIssued || target == PurchaseStatusCancelled
	case PurchaseStatusIssued:
		return target == PurchaseStatusIssued || target == PurchaseStatusPartiallyReceived ||
			target == PurchaseStatusReceived || target == PurchaseStatusCancelled
	case PurchaseStatusPartiallyReceived:
		return target == PurchaseStatusPartiallyReceived || target == PurchaseStatusReceived
	case PurchaseStatusReceived, PurchaseStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseStatus) CanReceive() bool {
	return s == PurchaseStatusIssued || s == PurchaseStatusPartiallyReceived
}

// DeriveReceiptStatus maps the received and ordered quantities of a purchase
// to its receiving status
func DeriveReceiptStatus(received, ordered decimal.Decimal) PurchaseStatus {
	switch {
	case !received.IsPositive():
		return PurchaseStatusIssued
	case received.LessThan(ordered):
		return PurchaseStatusPartiallyReceived
	default:
		return PurchaseStatusReceived
	}
}

// PurchaseItem represents a line of a purchase order
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Quantity × Cost − Discount
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// PurchaseLine is the input of one purchase order line
type PurchaseLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	Cost      decimal.Decimal
	Discount  decimal.Decimal
}

// NewPurchaseItem creates a purchase line with a quantized total
func NewPurchaseItem(purchaseID uuid.UUID, line PurchaseLine) (*PurchaseItem, error) {
	if line.ProductID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_PRODUCT", "product_id", "Product ID cannot be empty")
	}
	qty := valueobject.QuantizeQty(line.Quantity)
	if !qty.IsPositive() {
		return nil, shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive")
	}
	cost := valueobject.QuantizeMoney(line.Cost)
	if cost.IsNegative() {
		return nil, shared.NewFieldError("INVALID_COST", "cost", "Cost cannot be negative")
	}
	discount := valueobject.QuantizeMoney(line.Discount)
	if discount.IsNegative() {
		return nil, shared.NewFieldError("INVALID_DISCOUNT", "discount", "Discount cannot be negative")
	}
	total := valueobject.QuantizeMoney(qty.Mul(cost).Sub(discount))
	if total.IsNegative() {
		return nil, shared.NewFieldError("INVALID_DISCOUNT", "discount", "Discount cannot exceed the line amount")
	}

	return &PurchaseItem{
		BaseEntity: shared.NewBaseEntity(),
		PurchaseID: purchaseID,
		ProductID:  line.ProductID,
		Quantity:   qty,
		Cost:       cost,
		Discount:   discount,
		Total:      total,
	}, nil
}

// Purchase is a supplier order aggregate
type Purchase struct {
	shared.StoreAggregateRoot
	Deleted       bool            `gorm:"not null;default:false;index"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        PurchaseStatus  `gorm:"type:varchar(30);not null;default:'rascunho';index"`
	ExpectedTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReceivedTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes         *string         `gorm:"type:text"`
	IssuedAt      *time.Time
	ReceivedAt    *time.Time
	CancelledAt   *time.Time
	Items         []PurchaseItem `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a draft purchase order. Lines must be non-empty and
// each product may appear only once.
func NewPurchase(storeID, supplierID uuid.UUID, lines []PurchaseLine, notes string, createdBy *uuid.UUID) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_SUPPLIER", "supplier_id", "Supplier ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewFieldError("EMPTY_ITEMS", "items", "Purchase must have at least one item")
	}

	p := &Purchase{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		SupplierID:         supplierID,
		Status:             PurchaseStatusDraft,
		ExpectedTotal:      valueobject.ZeroMoney(),
		ReceivedTotal:      valueobject.ZeroMoney(),
		Items:              make([]PurchaseItem, 0, len(lines)),
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		p.Notes = &notes
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, shared.NewFieldError("DUPLICATE_PRODUCT", "items", "Product already exists in order")
		}
		seen[line.ProductID] = struct{}{}

		item, err := NewPurchaseItem(p.ID, line)
		if err != nil {
			return nil, err
		}
		p.Items = append(p.Items, *item)
		total = total.Add(item.Total)
	}
	p.ExpectedTotal = valueobject.QuantizeMoney(total)
	return p, nil
}

// Submit issues a draft order to the supplier
func (p *Purchase) Submit(actor *uuid.UUID) error {
	if p.Status != PurchaseStatusDraft {
		return shared.ErrInvalidState.WithMessage("Only draft purchases can be issued")
	}
	now := time.Now().UTC()
	p.Status = PurchaseStatusIssued
	p.IssuedAt = &now
	p.MarkUpdatedBy(actor)
	return nil
}

// Cancel cancels an order that has not received anything yet
func (p *Purchase) Cancel(actor *uuid.UUID) error {
	if !p.Status.CanTransitionTo(PurchaseStatusCancelled) {
		return shared.ErrInvalidState.WithMessage("Purchase cannot be cancelled in status " + p.Status.String())
	}
	if p.ReceivedTotal.IsPositive() {
		return shared.ErrInvalidState.WithMessage("Purchase already has received goods")
	}
	now := time.Now().UTC()
	p.Status = PurchaseStatusCancelled
	p.CancelledAt = &now
	p.MarkUpdatedBy(actor)
	return nil
}

// EnsureReceivable fails unless the order is issued or partially received
func (p *Purchase) EnsureReceivable() error {
	if !p.Status.CanReceive() {
		return shared.ErrInvalidState.WithMessage("Purchase is not awaiting goods")
	}
	return nil
}

// ItemFor returns the order line of productID
func (p *Purchase) ItemFor(productID uuid.UUID) (*PurchaseItem, bool) {
	for i := range p.Items {
		if p.Items[i].ProductID == productID {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// OrderedQuantity sums the quantity of every line
func (p *Purchase) OrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range p.Items {
		total = total.Add(p.Items[i].Quantity)
	}
	return total
}

// AddReceivedValue adds money(qty × cost) of a received line to ReceivedTotal
func (p *Purchase) AddReceivedValue(qty, cost decimal.Decimal) {
	p.ReceivedTotal = valueobject.QuantizeMoney(p.ReceivedTotal.Add(valueobject.QuantizeMoney(qty.Mul(cost))))
}

// ApplyReceipt sets the status from the total received quantity. It returns
// true when this call completed the order.
func (p *Purchase) ApplyReceipt(received decimal.Decimal, actor *uuid.UUID) bool {
	next := DeriveReceiptStatus(received, p.OrderedQuantity())
	completed := next == PurchaseStatusReceived && p.Status != PurchaseStatusReceived
	p.Status = next
	if completed {
		now := time.Now().UTC()
		p.ReceivedAt = &now
		p.AddDomainEvent(NewPurchaseReceivedEvent(p))
	}
	p.MarkUpdatedBy(actor)
	return completed
}

// PayableAmount is the value owed to the supplier once fully received
func (p *Purchase) PayableAmount() decimal.Decimal {
	if p.ExpectedTotal.IsPositive() {
		return p.ExpectedTotal
	}
	return p.ReceivedTotal
}
