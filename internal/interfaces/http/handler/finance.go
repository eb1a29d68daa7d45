package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/mercearia/backend/internal/application/finance"
)

// FinanceHandler handles cash flow and payables
type FinanceHandler struct {
	BaseHandler
	financeService *financeapp.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(financeService *financeapp.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// CashFlow sums the open receivables and payables due in the period.
// GET /finance/cash-flow?from=2026-01-01&to=2026-01-31
func (h *FinanceHandler) CashFlow(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}
	flow, err := h.financeService.CashFlow(c.Request.Context(), storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, flow)
}

// SettlePayable marks an open payable as paid.
// POST /finance/payables/:id/settle
func (h *FinanceHandler) SettlePayable(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	payableID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	payable, err := h.financeService.SettlePayable(c.Request.Context(), storeID, payableID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}

// CancelPayable cancels an open payable.
// POST /finance/payables/:id/cancel
func (h *FinanceHandler) CancelPayable(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	payableID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	payable, err := h.financeService.CancelPayable(c.Request.Context(), storeID, payableID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payable)
}
