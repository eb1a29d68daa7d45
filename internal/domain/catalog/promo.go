package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PromoKind identifies how a promo rule is interpreted
type PromoKind string

const (
	PromoKindPercentOff PromoKind = "desconto_percentual"
	PromoKindBuy3Pay2   PromoKind = "leve3_pague2"
	PromoKindCombo      PromoKind = "combo"
)

// DefaultPromoPriority is used when a promo is created without a priority
const DefaultPromoPriority = 100

// IsKnown reports whether the kind is one the back office can create
func (k PromoKind) IsKnown() bool {
	switch k {
	case PromoKindPercentOff, PromoKindBuy3Pay2, PromoKindCombo:
		return true
	}
	return false
}

// PromoRule is the payload stored in Promo.Rule
type PromoRule struct {
	Type  PromoKind       `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Promo is a time-bounded store-wide pricing rule.
// Lower Priority wins.
type Promo struct {
	shared.StoreAggregateRoot
	Deleted    bool      `gorm:"not null;default:false;index"`
	Name       string    `gorm:"type:varchar(120);not null"`
	Rule       string    `gorm:"type:text;not null"`
	ValidFrom  time.Time `gorm:"not null;index"`
	ValidUntil *time.Time
	Priority   int  `gorm:"not null;default:100;index"`
	Active     bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Promo) TableName() string {
	return "promos"
}

// NewPromo creates an active promo
func NewPromo(storeID uuid.UUID, name string, rule PromoRule, validFrom time.Time, validUntil *time.Time, priority int, createdBy *uuid.UUID) (*Promo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("INVALID_NAME", "name", "Promo name is required")
	}
	if !rule.Type.IsKnown() {
		return nil, shared.NewFieldError("INVALID_RULE", "rule", "Unknown promo rule")
	}
	if rule.Type == PromoKindPercentOff && (rule.Value.IsNegative() || rule.Value.GreaterThan(decimal.NewFromInt(100))) {
		return nil, shared.NewFieldError("INVALID_RULE", "rule", "Percentage must be between 0 and 100")
	}
	if validFrom.IsZero() {
		validFrom = time.Now().UTC()
	}
	if validUntil != nil && validUntil.Before(validFrom) {
		return nil, shared.NewFieldError("INVALID_PERIOD", "valid_until", "Promo ends before it starts")
	}
	payload, err := json.Marshal(rule)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_RULE", "Promo rule cannot be encoded", err)
	}
	return &Promo{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID, createdBy),
		Name:               name,
		Rule:               string(payload),
		ValidFrom:          validFrom.UTC(),
		ValidUntil:         validUntil,
		Priority:           priority,
		Active:             true,
	}, nil
}

// ParsedRule decodes the stored rule payload
func (p *Promo) ParsedRule() (PromoRule, error) {
	var r PromoRule
	if err := json.Unmarshal([]byte(p.Rule), &r); err != nil {
		return PromoRule{}, err
	}
	return r, nil
}

// ValidAt reports whether the promo applies at t
func (p *Promo) ValidAt(t time.Time) bool {
	if !p.Active || p.Deleted {
		return false
	}
	if p.ValidFrom.After(t) {
		return false
	}
	return p.ValidUntil == nil || !p.ValidUntil.Before(t)
}

// Deactivate turns the promo off
func (p *Promo) Deactivate() {
	p.Active = false
	p.Touch()
}
