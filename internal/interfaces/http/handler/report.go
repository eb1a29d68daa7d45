package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/mercearia/backend/internal/application/report"
)

// ReportHandler serves the read-only store reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type turnoverQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// SalesByDay totals concluded sales per UTC day, both dates included.
// GET /reports/sales-by-day?from=&to=
func (h *ReportHandler) SalesByDay(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}
	days, err := h.reportService.SalesByDay(c.Request.Context(), storeID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}

// StockTurnover ranks products by sold quantity.
// GET /reports/turnover?limit=
func (h *ReportHandler) StockTurnover(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	var q turnoverQuery
	if !h.BindQuery(c, &q) {
		return
	}
	ranking, err := h.reportService.StockTurnover(c.Request.Context(), storeID, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ranking)
}

// ReorderList lists products at or below their reorder point.
// GET /reports/reorder
func (h *ReportHandler) ReorderList(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	lines, err := h.reportService.ReorderList(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}
