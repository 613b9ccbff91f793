package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// PrintSaleReceipt prints the receipt of a finalized sale.
func (h *PrinterHandler) PrintSaleReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "sale")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintSaleReceipt(c.Request.Context(), id)
	if err != nil {
		// A sale is never undone by a printer failure
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// PrintCashReport prints the summary of a cash session.
func (h *PrinterHandler) PrintCashReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "cash session")
	if !ok {
		return
	}

	report, err := h.printerService.PrintCashReport(c.Request.Context(), id)
	if err != nil {
		if report != nil {
			response.OK(c, "Report generated but printing failed", gin.H{
				"report":  report,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash report printed successfully", gin.H{
		"report": report,
	})
}
