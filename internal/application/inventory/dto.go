package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is a manual stock correction
type AdjustStockRequest struct {
	StoreID   uuid.UUID          `json:"-"`
	ProductID uuid.UUID          `json:"product_id" binding:"required"`
	Type      inventory.MoveType `json:"type" binding:"required,oneof=entrada_ajuste saida_ajuste"`
	Quantity  decimal.Decimal    `json:"quantity"`
	Reason    string             `json:"reason" binding:"max=500"`
	Actor     shared.Actor       `json:"-"`
}

// StockMoveResponse is the API view of a stock move
type StockMoveResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
	Origin    string          `json:"origin"`
	RefID     *uuid.UUID      `json:"ref_id,omitempty"`
	Reason    *string         `json:"reason,omitempty"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToStockMoveResponse converts a domain move
func ToStockMoveResponse(m *inventory.StockMove) StockMoveResponse {
	return StockMoveResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type.String(),
		Quantity:  m.Quantity,
		Cost:      m.Cost,
		Origin:    string(m.Origin.Kind),
		RefID:     m.Origin.RefID,
		Reason:    m.Reason,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

// StockLevelResponse is the on-hand view of a product
type StockLevelResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// ReplayResult compares the move ledger with the materialized quantity
type ReplayResult struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Moves        int             `json:"moves"`
	Ledger       decimal.Decimal `json:"ledger_quantity"`
	Materialized decimal.Decimal `json:"stock_quantity"`
	Consistent   bool            `json:"consistent"`
}

// CreateSessionRequest opens an inventory session
type CreateSessionRequest struct {
	StoreID uuid.UUID    `json:"-"`
	Name    string       `json:"name" binding:"required,max=120"`
	Sector  string       `json:"sector" binding:"max=120"`
	Actor   shared.Actor `json:"-"`
}

// RegisterCountRequest records a counted quantity
type RegisterCountRequest struct {
	StoreID    uuid.UUID       `json:"-"`
	SessionID  uuid.UUID       `json:"-"`
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Actor      shared.Actor    `json:"-"`
}

// SessionResponse is the API view of an inventory session
type SessionResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Sector    *string         `json:"sector,omitempty"`
	Open      bool            `json:"open"`
	Counts    []CountResponse `json:"counts"`
	CreatedAt time.Time       `json:"created_at"`
}

// CountResponse is the API view of an inventory count
type CountResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	SystemQty  decimal.Decimal `json:"system_qty"`
	Difference decimal.Decimal `json:"difference"`
	Reconciled bool            `json:"reconciled"`
}

// ToCountResponse converts a domain count
func ToCountResponse(c *inventory.InventoryCount) CountResponse {
	return CountResponse{
		ID:         c.ID,
		ProductID:  c.ProductID,
		CountedQty: c.CountedQty,
		SystemQty:  c.SystemQty,
		Difference: c.Difference(),
		Reconciled: c.Reconciled,
	}
}

// ToSessionResponse converts a session and its counts
func ToSessionResponse(s *inventory.InventorySession, counts []inventory.InventoryCount) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		Name:      s.Name,
		Sector:    s.Sector,
		Open:      s.Open,
		Counts:    make([]CountResponse, 0, len(counts)),
		CreatedAt: s.CreatedAt,
	}
	for i := range counts {
		resp.Counts = append(resp.Counts, ToCountResponse(&counts[i]))
	}
	return resp
}

// ReconcileResult counts the adjustment moves a reconciliation emitted
type ReconcileResult struct {
	SessionID uuid.UUID `json:"session_id"`
	Inbound   int       `json:"inbound"`
	Outbound  int       `json:"outbound"`
}
