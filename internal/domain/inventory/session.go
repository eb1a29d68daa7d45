package inventory

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InventorySession is a physical count. It is one-shot: reconciliation closes it.
type InventorySession struct {
	shared.StoreAggregateRoot
	Deleted bool             `gorm:"not null;default:false;index"`
	Name    string           `gorm:"type:varchar(120);not null"`
	Sector  *string          `gorm:"type:varchar(120)"`
	Open    bool             `gorm:"not null;default:true"`
	Counts  []InventoryCount `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InventorySession) TableName() string {
	return "inventory_sessions"
}

// InventoryCount is the counted quantity of one product in a session, with
// the system quantity captured when it was counted.
type InventoryCount struct {
	shared.BaseEntity
	StoreID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_inventory_counts_session_product,priority:1"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_inventory_counts_session_product,priority:2"`
	CountedQty decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	SystemQty  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Reconciled bool            `gorm:"not null;default:false"`
	CreatedBy  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryCount) TableName() string {
	return "inventory_counts"
}

// NewInventorySession opens a counting session
func NewInventorySession(storeID uuid.UUID, name, sector string, createdBy *uuid.UUID) (*InventorySession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Session name is required")
	}
	s := &InventorySession{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Name:               name,
		Open:               true,
	}
	if sector = strings.TrimSpace(sector); sector != "" {
		s.Sector = &sector
	}
	return s, nil
}

// EnsureOpen fails when the session no longer accepts counts
func (s *InventorySession) EnsureOpen() error {
	if !s.Open || s.Deleted {
		return shared.ErrInvalidState.WithMessage("Inventory session is closed")
	}
	return nil
}

// NewInventoryCount records a first count of a product
func NewInventoryCount(session *InventorySession, productID uuid.UUID, counted, system decimal.Decimal, createdBy *uuid.UUID) (*InventoryCount, error) {
	c := &InventoryCount{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    session.StoreID,
		SessionID:  session.ID,
		ProductID:  productID,
		CreatedBy:  createdBy,
	}
	if err := c.Recount(counted, system); err != nil {
		return nil, err
	}
	return c, nil
}

// Recount replaces the counted and snapshot quantities and marks the count
// as pending reconciliation again.
func (c *InventoryCount) Recount(counted, system decimal.Decimal) error {
	counted = valueobject.QuantizeQty(counted)
	if counted.IsNegative() {
		return shared.NewFieldError("INVALID_QUANTITY", "counted_qty", "Counted quantity cannot be negative")
	}
	c.CountedQty = counted
	c.SystemQty = valueobject.QuantizeQty(system)
	c.Reconciled = false
	c.Touch()
	return nil
}

// Difference returns counted − system
func (c *InventoryCount) Difference() decimal.Decimal {
	return valueobject.QuantizeQty(c.CountedQty.Sub(c.SystemQty))
}

// Adjustment is a correcting move produced by reconciliation
type Adjustment struct {
	ProductID uuid.UUID
	Type      MoveType
	Quantity  decimal.Decimal
}

// Reconcile marks every pending count as reconciled, closes the session and
// returns one adjustment per count whose quantity differs from its snapshot,
// ordered by product id.
func (s *InventorySession) Reconcile(counts []InventoryCount) ([]Adjustment, error) {
	if err := s.EnsureOpen(); err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, shared.ErrInvalidState.WithMessage("Inventory session has no counts")
	}

	var adjustments []Adjustment
	for i := range counts {
		c := &counts[i]
		if c.Reconciled {
			continue
		}
		diff := c.Difference()
		c.Reconciled = true
		c.Touch()
		switch diff.Sign() {
		case 1:
			adjustments = append(adjustments, Adjustment{ProductID: c.ProductID, Type: MoveTypeAdjustmentIn, Quantity: diff})
		case -1:
			adjustments = append(adjustments, Adjustment{ProductID: c.ProductID, Type: MoveTypeAdjustOut, Quantity: diff.Abs()})
		}
	}
	slices.SortFunc(adjustments, func(a, b Adjustment) int {
		return CompareProductIDs(a.ProductID, b.ProductID)
	})

	s.Open = false
	s.Touch()
	return adjustments, nil
}
