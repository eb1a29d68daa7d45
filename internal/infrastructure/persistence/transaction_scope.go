package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/partner"
	"github.com/mercearia/backend/internal/domain/report"
	"github.com/mercearia/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements unitofwork.TransactionScope with one GORM
// transaction per Execute call
type GormTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// ScopeOption configures a GormTransactionScope
type ScopeOption func(*GormTransactionScope)

// WithLockTimeout bounds row lock waits on postgres. Zero keeps the server default.
func WithLockTimeout(d time.Duration) ScopeOption {
	return func(s *GormTransactionScope) {
		s.lockTimeout = d
	}
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, opts ...ScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs fn within a database transaction. It commits when fn
// returns nil and rolls back otherwise, including when ctx is cancelled.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos unitofwork.TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return TranslateError(s.db.Dialector, err)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return TranslateError(s.db.Dialector, err)
}

// gormTransactionalRepositories binds every repository to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Stores() identity.StoreRepository {
	return NewGormStoreRepository(r.tx)
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) PriceVersions() catalog.PriceVersionRepository {
	return NewGormPriceVersionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Promos() catalog.PromoRepository {
	return NewGormPromoRepository(r.tx)
}

func (r *gormTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockItems() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockMoves() inventory.StockMoveRepository {
	return NewGormStockMoveRepository(r.tx)
}

func (r *gormTransactionalRepositories) InventorySessions() inventory.InventorySessionRepository {
	return NewGormInventorySessionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Purchases() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) CashRegisters() trade.CashRegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payables() finance.PayableRepository {
	return NewGormPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) Receivables() finance.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditLogs() audit.AuditLogRepository {
	return NewGormAuditLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) Reports() report.ReportRepository {
	return NewGormReportRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ unitofwork.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ unitofwork.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
