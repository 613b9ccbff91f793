package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/declaramei/express-api/internal/application/service"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/internal/presentation/http/dto/request"
	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
	"github.com/declaramei/express-api/pkg/apperror"
)

// CashSessionHandler handles the cash drawer lifecycle
type CashSessionHandler struct {
	cashService *service.CashSessionService
}

// NewCashSessionHandler creates a new cash session handler
func NewCashSessionHandler(cashService *service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{cashService: cashService}
}

// Open handles opening a cash session
func (h *CashSessionHandler) Open(c *gin.Context) {
	var req request.OpenCashSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	balance, err := request.ParseAmount(req.OpeningBalance)
	if err != nil || balance == nil {
		response.Error(c, apperror.ErrInvalidOpeningBalance)
		return
	}

	session, err := h.cashService.Open(c.Request.Context(), req.OperatorName, *balance)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash session opened successfully", session)
}

// List handles listing cash sessions
func (h *CashSessionHandler) List(c *gin.Context) {
	var req request.CashSessionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var status *enum.CashSessionStatus
	switch strings.ToLower(req.Status) {
	case "":
	case "open":
		s := enum.CashSessionOpen
		status = &s
	case "closed":
		s := enum.CashSessionClosed
		status = &s
	default:
		response.BadRequest(c, "Invalid status filter")
		return
	}

	result, err := h.cashService.List(c.Request.Context(), pageParams(req.Page, req.PerPage), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Cash sessions retrieved successfully", result)
}

// Current handles getting the open cash session
func (h *CashSessionHandler) Current(c *gin.Context) {
	session, err := h.cashService.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session retrieved successfully", session)
}

// Get handles getting a single cash session with its ledger
func (h *CashSessionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "cash session")
	if !ok {
		return
	}

	session, err := h.cashService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session retrieved successfully", session)
}

// Totals handles computing a cash session's running totals
func (h *CashSessionHandler) Totals(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "cash session")
	if !ok {
		return
	}

	totals, err := h.cashService.Totals(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session totals retrieved successfully", totals)
}

// PostMovement handles recording a supply or withdrawal
func (h *CashSessionHandler) PostMovement(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "cash session")
	if !ok {
		return
	}

	var req request.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := request.ParseAmount(req.Amount)
	if err != nil || amount == nil {
		response.Error(c, fieldError("amount", "Amount must be a number greater than zero"))
		return
	}

	tx, err := h.cashService.PostMovement(c.Request.Context(), &service.MovementInput{
		SessionID:    id,
		Type:         enum.CashTransactionType(strings.ToLower(req.Type)),
		Amount:       *amount,
		Description:  req.Description,
		OperatorName: req.OperatorName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash movement recorded successfully", tx)
}

// Close handles closing a cash session against the counted balance
func (h *CashSessionHandler) Close(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "cash session")
	if !ok {
		return
	}

	var req request.CloseCashSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	counted, err := request.ParseAmount(req.CountedBalance)
	if err != nil || counted == nil {
		response.Error(c, apperror.ErrInvalidCountedBalance)
		return
	}

	session, err := h.cashService.Close(c.Request.Context(), id, *counted, req.Confirm)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session closed successfully", session)
}
