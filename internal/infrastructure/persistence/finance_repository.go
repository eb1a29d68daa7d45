package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPayableRepository implements PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByIDForStore finds a payable of the store
func (r *GormPayableRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*finance.Payable, error) {
	var payable finance.Payable
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payable, nil
}

// ExistsForSource reports whether a payable was already generated for the source
func (r *GormPayableRepository) ExistsForSource(ctx context.Context, storeID uuid.UUID, origin finance.SourceType, refID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&finance.Payable{}).
		Where("store_id = ? AND origin = ? AND ref_id = ?", storeID, origin, refID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindBySource lists the payables generated for a source
func (r *GormPayableRepository) FindBySource(ctx context.Context, storeID uuid.UUID, origin finance.SourceType, refID uuid.UUID) ([]finance.Payable, error) {
	var payables []finance.Payable
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND origin = ? AND ref_id = ?", storeID, origin, refID).
		Order("created_at ASC").
		Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// FindDueBetween lists payables due in [from, to)
func (r *GormPayableRepository) FindDueBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]finance.Payable, error) {
	var payables []finance.Payable
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND due_date >= ? AND due_date < ?", storeID, from, to).
		Order("due_date ASC, id ASC").
		Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// Save creates or updates a payable
func (r *GormPayableRepository) Save(ctx context.Context, payable *finance.Payable) error {
	return r.db.WithContext(ctx).Save(payable).Error
}

// GormReceivableRepository implements ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

// FindDueBetween lists receivables due in [from, to)
func (r *GormReceivableRepository) FindDueBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]finance.Receivable, error) {
	var receivables []finance.Receivable
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND due_date >= ? AND due_date < ?", storeID, from, to).
		Order("due_date ASC, id ASC").
		Find(&receivables).Error; err != nil {
		return nil, err
	}
	return receivables, nil
}

// Save creates or updates a receivable
func (r *GormReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	return r.db.WithContext(ctx).Save(receivable).Error
}

// Ensure the repositories implement their interfaces
var (
	_ finance.PayableRepository    = (*GormPayableRepository)(nil)
	_ finance.ReceivableRepository = (*GormReceivableRepository)(nil)
)
