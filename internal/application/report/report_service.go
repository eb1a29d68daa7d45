package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/report"
	"github.com/mercearia/backend/internal/domain/shared"
)

// ReportService computes the dashboard read models
type ReportService struct {
	scope unitofwork.TransactionScope
}

// NewReportService creates a new ReportService
func NewReportService(scope unitofwork.TransactionScope) *ReportService {
	return &ReportService{scope: scope}
}

// SalesByDay totals concluded sales created in [from, to) per UTC day
func (s *ReportService) SalesByDay(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]report.DailySales, error) {
	if !from.Before(to) {
		return nil, shared.NewFieldError("INVALID_PERIOD", "to", "Period end must be after its start")
	}
	var rows []report.SaleTotal
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		rows, err = repos.Reports().ConcludedSaleTotals(ctx, storeID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report.GroupSalesByDay(rows), nil
}

// StockTurnover ranks products by quantity sold in concluded sales.
// A non-positive limit means report.DefaultTurnoverLimit.
func (s *ReportService) StockTurnover(ctx context.Context, storeID uuid.UUID, limit int) ([]report.ProductTurnover, error) {
	var lines []report.SoldLine
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		lines, err = repos.Reports().ConcludedSaleLines(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report.RankTurnover(lines, limit), nil
}

// ReorderList lists the products at or below their reorder point
func (s *ReportService) ReorderList(ctx context.Context, storeID uuid.UUID) ([]report.ReorderLine, error) {
	var candidates []report.ReorderLine
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		candidates, err = repos.Reports().ReorderCandidates(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report.FilterReorder(candidates), nil
}
