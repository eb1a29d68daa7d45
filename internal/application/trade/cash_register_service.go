package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/shared/valueobject"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashRegisterService manages the store's tills
type CashRegisterService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewCashRegisterService creates a new CashRegisterService
func NewCashRegisterService(scope unitofwork.TransactionScope, logger *zap.Logger) *CashRegisterService {
	return &CashRegisterService{scope: scope, logger: logger}
}

// Create creates a closed register
func (s *CashRegisterService) Create(ctx context.Context, req CreateCashRegisterRequest) (*CashRegisterResponse, error) {
	register, err := trade.NewCashRegister(req.StoreID, req.Name)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.CashRegisters().Save(ctx, register); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "CashRegister", unitofwork.IDRef(register.ID), audit.ActionCreated,
			audit.Payload{"name": register.Name}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToCashRegisterResponse(register), nil
}

// Open opens a register with its float
func (s *CashRegisterService) Open(ctx context.Context, req CashRegisterBalanceRequest) (*CashRegisterResponse, error) {
	return s.transition(ctx, req, audit.ActionOpened, (*trade.CashRegister).OpenWith)
}

// Close closes a register with the counted balance
func (s *CashRegisterService) Close(ctx context.Context, req CashRegisterBalanceRequest) (*CashRegisterResponse, error) {
	return s.transition(ctx, req, audit.ActionClosed, (*trade.CashRegister).Close)
}

func (s *CashRegisterService) transition(ctx context.Context, req CashRegisterBalanceRequest, action audit.Action, apply func(*trade.CashRegister, decimal.Decimal) error) (*CashRegisterResponse, error) {
	var register *trade.CashRegister
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		register, err = repos.CashRegisters().FindByIDForStore(ctx, req.StoreID, req.CashRegisterID)
		if err != nil {
			return err
		}
		if err := apply(register, req.Balance); err != nil {
			return err
		}
		if err := repos.CashRegisters().Save(ctx, register); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "CashRegister", unitofwork.IDRef(register.ID), action,
			audit.Payload{"balance": valueobject.QuantizeMoney(req.Balance).StringFixed(valueobject.MoneyPlaces)}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("cash register "+string(action),
		zap.String("store_id", req.StoreID.String()),
		zap.String("cash_register_id", register.ID.String()),
	)
	return ToCashRegisterResponse(register), nil
}

// List returns the store's registers
func (s *CashRegisterService) List(ctx context.Context, storeID uuid.UUID) ([]CashRegisterResponse, error) {
	var registers []trade.CashRegister
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		registers, err = repos.CashRegisters().FindAllForStore(ctx, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]CashRegisterResponse, 0, len(registers))
	for i := range registers {
		out = append(out, *ToCashRegisterResponse(&registers[i]))
	}
	return out, nil
}
