// Package audit holds the append-only trail of mutating domain actions.
package audit

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
)

// Action names what happened to an entity
type Action string

const (
	ActionCreated         Action = "created"
	ActionUpdated         Action = "updated"
	ActionDeleted         Action = "deleted"
	ActionSubmitted       Action = "submitted"
	ActionReceived        Action = "received"
	ActionCancelled       Action = "canceled"
	ActionItemAdded       Action = "item_added"
	ActionItemRemoved     Action = "item_removed"
	ActionPaid            Action = "paid"
	ActionAdjusted        Action = "adjust"
	ActionReconciled      Action = "reconciled"
	ActionPriceChange     Action = "price_change"
	ActionOpened          Action = "opened"
	ActionClosed          Action = "closed"
	ActionSettled         Action = "settled"
	ActionLogin           Action = "login"
)

// AuditLog is an immutable record of one mutating action. It is written in
// the same transaction as the change it describes.
type AuditLog struct {
	shared.BaseEntity
	StoreID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_logs_store_entity,priority:1"`
	Entity   string     `gorm:"type:varchar(60);not null;index:idx_audit_logs_store_entity,priority:2"`
	EntityID *uuid.UUID `gorm:"type:uuid;index:idx_audit_logs_store_entity,priority:3"`
	Action   Action     `gorm:"type:varchar(60);not null"`
	Payload  string     `gorm:"type:text"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	IP       *string    `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Payload is the free-form body of an audit entry
type Payload map[string]any

// NewAuditLog creates an entry; payload is stored as JSON text
func NewAuditLog(storeID uuid.UUID, entity string, entityID *uuid.UUID, action Action, payload Payload, userID *uuid.UUID, ip string) (*AuditLog, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewFieldError("INVALID_STORE", "store_id", "Store ID cannot be empty")
	}
	if strings.TrimSpace(entity) == "" || action == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT", "Audit entity and action are required")
	}
	if payload == nil {
		payload = Payload{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_AUDIT", "Audit payload is not serializable", err)
	}

	l := &AuditLog{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		Payload:    string(body),
		UserID:     userID,
	}
	if ip = strings.TrimSpace(ip); ip != "" {
		l.IP = &ip
	}
	return l, nil
}

// DecodePayload parses the stored JSON body
func (l *AuditLog) DecodePayload() (Payload, error) {
	var p Payload
	if l.Payload == "" {
		return Payload{}, nil
	}
	if err := json.Unmarshal([]byte(l.Payload), &p); err != nil {
		return nil, err
	}
	return p, nil
}
