package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/presentation/http/dto/request"
	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
)

// SaleHandler handles finalized sales
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), pageParams(req.Page, req.PerPage), service.SaleFilter{
		CashSessionID: optionalUUID(req.CashSessionID),
		CustomerID:    optionalUUID(req.CustomerID),
		StartDate:     optionalDate(req.StartDate),
		EndDate:       endOfDay(optionalDate(req.EndDate)),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// ReceivableHandler handles on-account balances
type ReceivableHandler struct {
	receivableService *service.ReceivableService
}

// NewReceivableHandler creates a new receivable handler
func NewReceivableHandler(receivableService *service.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// List handles listing receivables
func (h *ReceivableHandler) List(c *gin.Context) {
	var req request.ReceivableFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var status *enum.ReceivableStatus
	if req.Status != "" {
		s, ok := enum.ParseReceivableStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	result, err := h.receivableService.ListReceivables(c.Request.Context(), pageParams(req.Page, req.PerPage), status, optionalUUID(req.CustomerID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Receivables retrieved successfully", result)
}

// Get handles getting a single receivable
func (h *ReceivableHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receivable")
	if !ok {
		return
	}

	receivable, err := h.receivableService.GetReceivable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivable retrieved successfully", receivable)
}

// MarkPaid handles settling a receivable
func (h *ReceivableHandler) MarkPaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "receivable")
	if !ok {
		return
	}

	receivable, err := h.receivableService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivable marked as paid", receivable)
}
