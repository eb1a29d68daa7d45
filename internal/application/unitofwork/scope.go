// Package unitofwork defines the transaction boundary every mutating service
// call runs in.
package unitofwork

import (
	"context"

	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/partner"
	"github.com/mercearia/backend/internal/domain/report"
	"github.com/mercearia/backend/internal/domain/trade"
)

// TransactionScope runs a function inside one database transaction.
// If fn returns an error, or ctx is cancelled, the transaction is rolled back
// and nothing fn wrote persists. Errors leaving Execute are always
// *shared.DomainError.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every repository bound to the
// current transaction
type TransactionalRepositories interface {
	Stores() identity.StoreRepository
	Users() identity.UserRepository
	Categories() catalog.CategoryRepository
	Products() catalog.ProductRepository
	PriceVersions() catalog.PriceVersionRepository
	Promos() catalog.PromoRepository
	Suppliers() partner.SupplierRepository
	Customers() partner.CustomerRepository
	StockItems() inventory.StockItemRepository
	StockMoves() inventory.StockMoveRepository
	InventorySessions() inventory.InventorySessionRepository
	Purchases() trade.PurchaseRepository
	Sales() trade.SaleRepository
	CashRegisters() trade.CashRegisterRepository
	Payables() finance.PayableRepository
	Receivables() finance.ReceivableRepository
	AuditLogs() audit.AuditLogRepository
	Reports() report.ReportRepository
}
