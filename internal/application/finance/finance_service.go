package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashFlowResponse is the expected balance of a period
type CashFlowResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	finance.CashFlowSummary
}

// PayableResponse is the API view of a payable
type PayableResponse struct {
	ID         uuid.UUID       `json:"id"`
	Origin     string          `json:"origin"`
	RefID      uuid.UUID       `json:"ref_id"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPayableResponse converts a domain payable
func ToPayableResponse(p *finance.Payable) PayableResponse {
	return PayableResponse{
		ID:         p.ID,
		Origin:     string(p.Origin),
		RefID:      p.RefID,
		SupplierID: p.SupplierID,
		Amount:     p.Amount,
		DueDate:    p.DueDate,
		Status:     p.Status.String(),
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

// FinanceService reads the cash flow and settles payables
type FinanceService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(scope unitofwork.TransactionScope, logger *zap.Logger) *FinanceService {
	return &FinanceService{scope: scope, logger: logger}
}

// CashFlow summarizes the receivables and payables due in [from, to)
func (s *FinanceService) CashFlow(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*CashFlowResponse, error) {
	if !from.Before(to) {
		return nil, shared.NewFieldError("INVALID_PERIOD", "to", "Period end must be after its start")
	}
	var (
		receivables []finance.Receivable
		payables    []finance.Payable
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		if receivables, err = repos.Receivables().FindDueBetween(ctx, storeID, from, to); err != nil {
			return err
		}
		payables, err = repos.Payables().FindDueBetween(ctx, storeID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &CashFlowResponse{
		From:            from.UTC(),
		To:              to.UTC(),
		CashFlowSummary: finance.SummarizeCashFlow(receivables, payables),
	}, nil
}

// PayablesForPurchase returns the payables generated by a purchase order
func (s *FinanceService) PayablesForPurchase(ctx context.Context, storeID, purchaseID uuid.UUID) ([]PayableResponse, error) {
	var payables []finance.Payable
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if _, err := repos.Purchases().FindByIDForStore(ctx, storeID, purchaseID); err != nil {
			return err
		}
		var err error
		payables, err = repos.Payables().FindBySource(ctx, storeID, finance.SourcePurchase, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]PayableResponse, 0, len(payables))
	for i := range payables {
		out = append(out, ToPayableResponse(&payables[i]))
	}
	return out, nil
}

// SettlePayable marks an open payable as paid
func (s *FinanceService) SettlePayable(ctx context.Context, storeID, payableID uuid.UUID, actor shared.Actor) (*PayableResponse, error) {
	return s.transition(ctx, storeID, payableID, actor, audit.ActionSettled, (*finance.Payable).Settle)
}

// CancelPayable voids an open payable
func (s *FinanceService) CancelPayable(ctx context.Context, storeID, payableID uuid.UUID, actor shared.Actor) (*PayableResponse, error) {
	return s.transition(ctx, storeID, payableID, actor, audit.ActionCancelled, (*finance.Payable).Cancel)
}

func (s *FinanceService) transition(ctx context.Context, storeID, payableID uuid.UUID, actor shared.Actor, action audit.Action, apply func(*finance.Payable) error) (*PayableResponse, error) {
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		payable, err = repos.Payables().FindByIDForStore(ctx, storeID, payableID)
		if err != nil {
			return err
		}
		if err := apply(payable); err != nil {
			return err
		}
		if err := repos.Payables().Save(ctx, payable); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Payable", unitofwork.IDRef(payable.ID), action, audit.Payload{
			"status": payable.Status,
			"amount": payable.Amount.StringFixed(valueobject.MoneyPlaces),
		}, actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payable "+string(action),
		zap.String("store_id", storeID.String()),
		zap.String("payable_id", payableID.String()),
	)
	resp := ToPayableResponse(payable)
	return &resp, nil
}
