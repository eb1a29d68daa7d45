package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository appends and lists audit entries
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an entry
func (r *GormAuditLogRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByEntity pages through the entries of one entity, newest first
func (r *GormAuditLogRepository) FindByEntity(ctx context.Context, storeID uuid.UUID, entity string, entityID uuid.UUID, filter shared.Filter) ([]audit.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.AuditLog{}).
		Where("store_id = ? AND entity = ? AND entity_id = ?", storeID, entity, entityID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []audit.AuditLog
	if err := applyPage(query, filter, AuditLogSortFields, "created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

var _ audit.AuditLogRepository = (*GormAuditLogRepository)(nil)
