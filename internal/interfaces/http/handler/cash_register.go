package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
)

// CashRegisterHandler handles tills
type CashRegisterHandler struct {
	BaseHandler
	cashRegisterService *tradeapp.CashRegisterService
}

// NewCashRegisterHandler creates a new CashRegisterHandler
func NewCashRegisterHandler(cashRegisterService *tradeapp.CashRegisterService) *CashRegisterHandler {
	return &CashRegisterHandler{cashRegisterService: cashRegisterService}
}

// Create creates a closed till
func (h *CashRegisterHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req tradeapp.CreateCashRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	register, err := h.cashRegisterService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// Open opens a till with its counted opening balance
func (h *CashRegisterHandler) Open(c *gin.Context) {
	h.balance(c, h.cashRegisterService.Open)
}

// Close closes a till with its counted closing balance
func (h *CashRegisterHandler) Close(c *gin.Context) {
	h.balance(c, h.cashRegisterService.Close)
}

func (h *CashRegisterHandler) balance(c *gin.Context, apply func(context.Context, tradeapp.CashRegisterBalanceRequest) (*tradeapp.CashRegisterResponse, error)) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	registerID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CashRegisterBalanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.CashRegisterID, req.Actor = storeID, registerID, actor

	register, err := apply(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// List returns every till of the store
func (h *CashRegisterHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	registers, err := h.cashRegisterService.List(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, registers)
}
