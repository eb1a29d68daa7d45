package finance

import (
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CashFlowSummary is the expected balance of a period. Only open documents
// count toward the amounts; the counts include every document due in it.
type CashFlowSummary struct {
	ToReceive       decimal.Decimal `json:"to_receive"`
	ToPay           decimal.Decimal `json:"to_pay"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
	ReceivableCount int             `json:"receivable_count"`
	PayableCount    int             `json:"payable_count"`
}

// SummarizeCashFlow folds the documents due in a period
func SummarizeCashFlow(receivables []Receivable, payables []Payable) CashFlowSummary {
	toReceive := decimal.Zero
	for _, r := range receivables {
		if r.Status == StatusOpen {
			toReceive = toReceive.Add(r.Amount)
		}
	}
	toPay := decimal.Zero
	for _, p := range payables {
		if p.Status == StatusOpen {
			toPay = toPay.Add(p.Amount)
		}
	}
	return CashFlowSummary{
		ToReceive:       valueobject.QuantizeMoney(toReceive),
		ToPay:           valueobject.QuantizeMoney(toPay),
		ExpectedBalance: valueobject.QuantizeMoney(toReceive.Sub(toPay)),
		ReceivableCount: len(receivables),
		PayableCount:    len(payables),
	}
}
