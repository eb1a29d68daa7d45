package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/mercearia/backend/internal/application/partner"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

func (h *CustomerHandler) GetByID(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	customerID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetByID(c.Request.Context(), storeID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.customerService.List(c.Request.Context(), storeID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}
