package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appinventory "github.com/mercearia/backend/internal/application/inventory"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/report"
	"go.uber.org/zap"
)

// SweepResult counts what one sweep did
type SweepResult struct {
	Stores int
	Alerts int
	Failed int
}

// ReorderSweeper re-sends a reorder alert for every product still at or
// below its reorder point. The event-driven alert fires only on the move
// that crosses the point; the sweep reminds about items nobody restocked.
type ReorderSweeper struct {
	scope    unitofwork.TransactionScope
	notifier appinventory.ReorderNotifier
	logger   *zap.Logger
}

// NewReorderSweeper creates a new ReorderSweeper
func NewReorderSweeper(scope unitofwork.TransactionScope, notifier appinventory.ReorderNotifier, logger *zap.Logger) *ReorderSweeper {
	return &ReorderSweeper{scope: scope, notifier: notifier, logger: logger}
}

// Sweep walks every active store. A store whose alerts fail does not stop
// the others; the joined errors are returned at the end.
func (s *ReorderSweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var stores []identity.Store
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		stores, err = repos.Stores().FindAllActive(ctx)
		return err
	})
	if err != nil {
		return SweepResult{}, fmt.Errorf("list stores: %w", err)
	}

	var (
		result SweepResult
		errs   []error
	)
	for _, store := range stores {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		sent, failed, err := s.sweepStore(ctx, store.ID)
		result.Stores++
		result.Alerts += sent
		result.Failed += failed
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", store.ID, err))
		}
	}

	s.logger.Info("reorder sweep finished",
		zap.Int("stores", result.Stores),
		zap.Int("alerts", result.Alerts),
		zap.Int("failed", result.Failed),
	)
	return result, errors.Join(errs...)
}

func (s *ReorderSweeper) sweepStore(ctx context.Context, storeID uuid.UUID) (sent, failed int, err error) {
	var candidates []report.ReorderLine
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		candidates, err = repos.Reports().ReorderCandidates(ctx, storeID)
		return err
	})
	if err != nil {
		return 0, 0, err
	}

	var errs []error
	for _, line := range report.FilterReorder(candidates) {
		alert := appinventory.ReorderAlert{
			StoreID:      storeID.String(),
			ProductID:    line.ProductID.String(),
			Quantity:     line.Quantity.String(),
			ReorderPoint: line.ReorderPoint.String(),
			AlertType:    "low_stock",
		}
		if !line.Quantity.IsPositive() {
			alert.AlertType = "out_of_stock"
		}
		if err := s.notifier.SendAlert(ctx, alert); err != nil {
			failed++
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, failed, errors.Join(errs...)
}
