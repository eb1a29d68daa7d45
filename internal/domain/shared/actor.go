package shared

import "github.com/google/uuid"

// Actor is who performs an operation, for authorization and audit.
// A zero UserID means the system itself.
type Actor struct {
	UserID uuid.UUID
	IP     string
}

// Ref returns the user id as an optional reference
func (a Actor) Ref() *uuid.UUID {
	return ActorRef(a.UserID)
}

// IsSystem reports whether no user is attached
func (a Actor) IsSystem() bool {
	return a.UserID == uuid.Nil
}
