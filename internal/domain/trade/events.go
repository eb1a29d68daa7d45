package trade

import (
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchase = "Purchase"
	AggregateTypeSale     = "Sale"
)

// Event type constants
const (
	EventTypePurchaseReceived = "PurchaseReceived"
	EventTypeSalePaid         = "SalePaid"
	EventTypeSaleCancelled    = "SaleCancelled"
)

// PurchaseReceivedEvent is raised when a purchase is fully received
type PurchaseReceivedEvent struct {
	shared.BaseDomainEvent
	SupplierID    uuid.UUID       `json:"supplier_id"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	ReceivedTotal decimal.Decimal `json:"received_total"`
}

// NewPurchaseReceivedEvent creates a PurchaseReceivedEvent
func NewPurchaseReceivedEvent(p *Purchase) *PurchaseReceivedEvent {
	return &PurchaseReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseReceived, AggregateTypePurchase, p.ID, p.StoreID),
		SupplierID:      p.SupplierID,
		ExpectedTotal:   p.ExpectedTotal,
		ReceivedTotal:   p.ReceivedTotal,
	}
}

// SalePaidEvent is raised when a sale is concluded
type SalePaidEvent struct {
	shared.BaseDomainEvent
	Payment PaymentMethod   `json:"payment"`
	Total   decimal.Decimal `json:"total"`
	Change  decimal.Decimal `json:"change"`
	Items   int             `json:"items"`
}

// NewSalePaidEvent creates a SalePaidEvent
func NewSalePaidEvent(s *Sale) *SalePaidEvent {
	e := &SalePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalePaid, AggregateTypeSale, s.ID, s.StoreID),
		Total:           s.Total,
		Change:          s.Change,
		Items:           len(s.Items),
	}
	if s.Payment != nil {
		e.Payment = *s.Payment
	}
	return e
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Reason        string          `json:"reason"`
	Total         decimal.Decimal `json:"total"`
	StockReturned bool            `json:"stock_returned"`
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale, stockReturned bool) *SaleCancelledEvent {
	e := &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, s.ID, s.StoreID),
		Total:           s.Total,
		StockReturned:   stockReturned,
	}
	if s.CancelReason != nil {
		e.Reason = *s.CancelReason
	}
	return e
}
