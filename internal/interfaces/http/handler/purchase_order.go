package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/mercearia/backend/internal/application/finance"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler handles the purchase order lifecycle: draft, issue,
// receipt and cancellation
type PurchaseOrderHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
	financeService  *financeapp.FinanceService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(purchaseService *tradeapp.PurchaseService, financeService *financeapp.FinanceService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		purchaseService: purchaseService,
		financeService:  financeService,
	}
}

// purchaseListQuery adds the status filter to the common list parameters
type purchaseListQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=rascunho emitida parcialmente_recebida recebida cancelada"`
}

// Create creates a draft purchase order.
// POST /purchases
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	order, err := h.purchaseService.CreatePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Submit issues a draft order to its supplier.
// POST /purchases/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.purchaseService.SubmitPurchaseOrder(c.Request.Context(), storeID, purchaseID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Receive receives goods against an issued order. The receipt that
// completes the order also generates its payable.
// POST /purchases/:id/receipts
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ReceivePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.PurchaseID, req.Actor = storeID, purchaseID, actor

	result, err := h.purchaseService.ReceivePurchaseOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel cancels an order that has not received anything yet.
// POST /purchases/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.purchaseService.CancelPurchaseOrder(c.Request.Context(), storeID, purchaseID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByID returns an order with its lines.
// GET /purchases/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.purchaseService.GetPurchaseOrder(c.Request.Context(), storeID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List returns a page of orders, optionally filtered by ?status=.
// GET /purchases
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	var q purchaseListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.purchaseService.ListPurchaseOrders(c.Request.Context(), storeID, trade.PurchaseStatus(q.Status), q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Payables lists the payables generated by an order.
// GET /purchases/:id/payables
func (h *PurchaseOrderHandler) Payables(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	purchaseID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	payables, err := h.financeService.PayablesForPurchase(c.Request.Context(), storeID, purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payables)
}
