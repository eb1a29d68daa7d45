package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// AuditLogRepository appends and lists audit entries. There is no update or
// delete path.
type AuditLogRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	FindByEntity(ctx context.Context, storeID uuid.UUID, entity string, entityID uuid.UUID, filter shared.Filter) ([]AuditLog, int64, error)
}
