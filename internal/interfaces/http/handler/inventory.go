package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/mercearia/backend/internal/application/inventory"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
)

// AlertFeed reads the latest reorder alerts of a store
type AlertFeed interface {
	Recent(ctx context.Context, storeID string, limit int) ([]inventoryapp.ReorderAlert, error)
}

// InventoryHandler handles stock levels, moves and inventory sessions
type InventoryHandler struct {
	BaseHandler
	stockService   *inventoryapp.StockService
	sessionService *inventoryapp.SessionService
	alerts         AlertFeed
}

// NewInventoryHandler creates a new InventoryHandler. alerts may be nil when
// no notifier is configured.
func NewInventoryHandler(stockService *inventoryapp.StockService, sessionService *inventoryapp.SessionService, alerts AlertFeed) *InventoryHandler {
	return &InventoryHandler{
		stockService:   stockService,
		sessionService: sessionService,
		alerts:         alerts,
	}
}

// Adjust records a manual stock correction.
// POST /stock/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	move, err := h.stockService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, move)
}

// GetStock returns the on-hand quantity of a product.
// GET /stock/:id
func (h *InventoryHandler) GetStock(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	level, err := h.stockService.GetStock(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ListMoves returns a page of the move history of a product.
// GET /stock/:id/moves
func (h *InventoryHandler) ListMoves(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.stockService.ListMoves(c.Request.Context(), storeID, productID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Replay compares the move ledger of a product with its stock quantity.
// GET /stock/:id/replay
func (h *InventoryHandler) Replay(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.stockService.ReplayQuantity(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReorderAlerts returns the latest reorder alerts, newest first.
// GET /stock/alerts?limit=
func (h *InventoryHandler) ReorderAlerts(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	if h.alerts == nil {
		h.Success(c, []inventoryapp.ReorderAlert{})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	alerts, err := h.alerts.Recent(c.Request.Context(), storeID.String(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// CreateSession opens an inventory session.
// POST /inventory/sessions
func (h *InventoryHandler) CreateSession(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	session, err := h.sessionService.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// GetSession returns a session with its counts.
// GET /inventory/sessions/:id
func (h *InventoryHandler) GetSession(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	sessionID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	session, err := h.sessionService.GetSession(c.Request.Context(), storeID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RegisterCount records the counted quantity of a product. Counting the
// same product again replaces the earlier count.
// POST /inventory/sessions/:id/counts
func (h *InventoryHandler) RegisterCount(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.RegisterCountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.SessionID, req.Actor = storeID, sessionID, actor

	count, err := h.sessionService.RegisterCount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// Reconcile turns the differences of a session into adjustment moves and
// closes it.
// POST /inventory/sessions/:id/reconcile
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.sessionService.Reconcile(c.Request.Context(), storeID, sessionID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
