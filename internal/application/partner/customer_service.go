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

// CustomerService handles customer operations
type CustomerService struct {
	scope  unitofwork.TransactionScope
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(scope unitofwork.TransactionScope, logger *zap.Logger) *CustomerService {
	return &CustomerService{scope: scope, logger: logger}
}

// Create creates a customer; a CPF is unique per store
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.StoreID, req.Name, req.CPF, req.Phone, req.Email, req.Actor.Ref())
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		if err := repos.Customers().Save(ctx, customer); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Customer", unitofwork.IDRef(customer.ID), audit.ActionCreated,
			audit.Payload{"name": customer.Name}, req.Actor)
	})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// GetByID retrieves a customer
func (s *CustomerService) GetByID(ctx context.Context, storeID, customerID uuid.UUID) (*CustomerResponse, error) {
	var customer *partner.Customer
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		customer, err = repos.Customers().FindByIDForStore(ctx, storeID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (shared.Paginated[CustomerResponse], error) {
	var (
		customers []partner.Customer
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		var err error
		customers, total, err = repos.Customers().FindAllForStore(ctx, storeID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *ToCustomerResponse(&customers[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}
