package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/partner"
	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier operations
type SupplierService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(scope unitofwork.TransactionScope, logger *zap.Logger) *SupplierService {
	return &SupplierService{scope: scope, logger: logger}
}

// Create creates a supplier; names are unique per store
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.StoreID, partner.SupplierInput{
		Name:            req.Name,
		CNPJ:            req.CNPJ,
		IE:              req.IE,
		Contact:         req.Contact,
		Phone:           req.Phone,
		Email:           req.Email,
		PaymentTermDays: req.PaymentTermDays,
	}, req.Actor.Ref())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Supplier", unitofwork.IDRef(supplier.ID), audit.ActionCreated,
			audit.Payload{"name": supplier.Name, "payment_term_days": supplier.PaymentTermDays}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("supplier created", zap.String("store_id", req.StoreID.String()), zap.String("supplier_id", supplier.ID.String()))
	return ToSupplierResponse(supplier), nil
}

// Deactivate stops a supplier from receiving new purchase orders
func (s *SupplierService) Deactivate(ctx context.Context, storeID, supplierID uuid.UUID, actor shared.Actor) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		supplier, err = repos.Suppliers().FindByIDForStore(ctx, storeID, supplierID)
		if err != nil {
			return err
		}
		supplier.Deactivate()
		supplier.MarkUpdatedBy(actor.Ref())
		if err := repos.Suppliers().Save(ctx, supplier); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, storeID, "Supplier", unitofwork.IDRef(supplier.ID), audit.ActionUpdated,
			audit.Payload{"active": false}, actor)
	})
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, storeID, supplierID uuid.UUID) (*SupplierResponse, error) {
	var supplier *partner.Supplier
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		supplier, err = repos.Suppliers().FindByIDForStore(ctx, storeID, supplierID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToSupplierResponse(supplier), nil
}

// List returns a page of suppliers
func (s *SupplierService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[SupplierResponse], error) {
	var (
		suppliers []partner.Supplier
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		suppliers, total, err = repos.Suppliers().FindAllForStore(ctx, storeID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	items := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, *ToSupplierResponse(&suppliers[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}
