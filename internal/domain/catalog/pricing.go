package catalog

import (
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PriceQuote is the resolved price of a sale line
type PriceQuote struct {
	UnitPrice decimal.Decimal
	Gross     decimal.Decimal // UnitPrice × qty
	Discount  decimal.Decimal
	Total     decimal.Decimal // Gross − Discount
	PromoID   *uuid.UUID
}

// RuleInterpreter computes the discount a promo rule grants on a line
type RuleInterpreter interface {
	Kind() PromoKind
	Discount(unitPrice, qty decimal.Decimal, rule PromoRule) decimal.Decimal
}

// PercentOffInterpreter grants value% off the line gross
type PercentOffInterpreter struct{}

// Kind implements RuleInterpreter
func (PercentOffInterpreter) Kind() PromoKind { return PromoKindPercentOff }

// Discount implements RuleInterpreter
func (PercentOffInterpreter) Discount(unitPrice, qty decimal.Decimal, rule PromoRule) decimal.Decimal {
	return valueobject.QuantizeMoney(valueobject.Percent(unitPrice.Mul(qty), rule.Value))
}

// PriceResolver turns a product, a quantity and the store's winning promo into a quote.
// Rule kinds without an interpreter grant no discount.
type PriceResolver struct {
	interpreters map[PromoKind]RuleInterpreter
}

// NewPriceResolver creates a resolver with the given interpreters
func NewPriceResolver(interpreters ...RuleInterpreter) *PriceResolver {
	r := &PriceResolver{interpreters: make(map[PromoKind]RuleInterpreter, len(interpreters))}
	for _, i := range interpreters {
		r.interpreters[i.Kind()] = i
	}
	return r
}

// DefaultPriceResolver interprets percentage discounts only
func DefaultPriceResolver() *PriceResolver {
	return NewPriceResolver(PercentOffInterpreter{})
}

// Resolve prices qty units of p. promo is the store's highest precedence
// valid promo, or nil.
func (r *PriceResolver) Resolve(p *Product, qty decimal.Decimal, promo *Promo) PriceQuote {
	unit := valueobject.QuantizeMoney(p.SalePrice)
	q := PriceQuote{
		UnitPrice: unit,
		Gross:     valueobject.QuantizeMoney(unit.Mul(qty)),
		Discount:  valueobject.ZeroMoney(),
	}
	if p.Active && promo != nil {
		if rule, err := promo.ParsedRule(); err == nil {
			if interp, ok := r.interpreters[rule.Type]; ok {
				q.Discount = interp.Discount(unit, qty, rule)
				id := promo.ID
				q.PromoID = &id
			}
		}
	}
	q.Total = valueobject.QuantizeMoney(q.Gross.Sub(q.Discount))
	return q
}
