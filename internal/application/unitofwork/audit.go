package unitofwork

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/shared"
)

// Audit appends an audit entry through repos, inside the caller's transaction.
// A failure aborts the whole unit of work.
func Audit(ctx context.Context, repos TransactionalRepositories, storeID uuid.UUID, entity string, entityID *uuid.UUID, action audit.Action, payload audit.Payload, actor shared.Actor) error {
	entry, err := audit.NewAuditLog(storeID, entity, entityID, action, payload, actor.Ref(), actor.IP)
	if err != nil {
		return err
	}
	return repos.AuditLogs().Create(ctx, entry)
}

// IDRef returns a pointer to a copy of id
func IDRef(id uuid.UUID) *uuid.UUID {
	return &id
}
