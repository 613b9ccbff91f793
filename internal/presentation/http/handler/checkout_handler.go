package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/presentation/http/dto/request"
	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
	"github.com/declaramei/express-api/pkg/utils"
)

// CheckoutHandler handles the sale in progress at the terminal
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Get handles reading the sale in progress
func (h *CheckoutHandler) Get(c *gin.Context) {
	state, err := h.checkoutService.State(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checkout retrieved successfully", state)
}

// AddItem handles adding one unit of a product or service
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	id, err := utils.ParseUUID(req.ID)
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	state, err := h.checkoutService.AddItem(c.Request.Context(), enum.ItemKind(req.Kind), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added successfully", state)
}

// SetQuantity handles changing a cart line quantity
func (h *CheckoutHandler) SetQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "item")
	if !ok {
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	kind := enum.ItemKind(strings.ToLower(c.Param("kind")))
	state, err := h.checkoutService.SetQuantity(c.Request.Context(), kind, id, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated successfully", state)
}

// Cancel handles abandoning the sale in progress; requires ?confirm=true
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	confirm, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))

	state, err := h.checkoutService.Cancel(c.Request.Context(), confirm)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", state)
}

// AddPayment handles adding a payment. Card payments block until the
// gateway answers.
func (h *CheckoutHandler) AddPayment(c *gin.Context) {
	var req request.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := request.ParseAmount(req.Amount)
	if err != nil {
		response.Error(c, fieldError("amount", "Amount must be a number with at most two decimal places"))
		return
	}

	method := enum.PaymentMethod(strings.ToLower(req.Method))
	state, err := h.checkoutService.AddPayment(c.Request.Context(), method, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment added successfully", state)
}

// RemovePayment handles removing a payment by its position
func (h *CheckoutHandler) RemovePayment(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid payment index")
		return
	}

	state, err := h.checkoutService.RemovePayment(c.Request.Context(), index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment removed successfully", state)
}

// SetTendered handles recording the cash handed over
func (h *CheckoutHandler) SetTendered(c *gin.Context) {
	var req request.SetTenderedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := request.ParseAmount(req.Tendered)
	if err != nil {
		response.Error(c, fieldError("tendered", "Tendered amount must be a number with at most two decimal places"))
		return
	}

	state, err := h.checkoutService.SetTendered(c.Request.Context(), amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tendered amount updated successfully", state)
}

// SetCustomer handles selecting the customer of the sale
func (h *CheckoutHandler) SetCustomer(c *gin.Context) {
	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var id *uuid.UUID
	if req.CustomerID != nil {
		id = optionalUUID(*req.CustomerID)
	}

	state, err := h.checkoutService.SetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", state)
}

// SetDueDate handles selecting the on-account due date
func (h *CheckoutHandler) SetDueDate(c *gin.Context) {
	var req request.SetDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		dueDate = optionalDate(*req.DueDate)
	}

	state, err := h.checkoutService.SetDueDate(c.Request.Context(), dueDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Due date updated successfully", state)
}

// Finalize handles completing the sale
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	result, err := h.checkoutService.Finalize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale finalized successfully", result)
}
