package apperror

import (
	"errors"
	"net/http"
	"strings"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors of the same kind, so errors.Is(err, ErrInsufficientStock)
// holds for any error built by NewInsufficientStockError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return e.Reason != "" && e.Reason == t.Reason
}

// Error reasons
const (
	ReasonNotFound              = "not_found"
	ReasonConflict              = "conflict"
	ReasonValidation            = "validation"
	ReasonInsufficientStock     = "insufficient_stock"
	ReasonInvalidPayment        = "invalid_payment"
	ReasonClientRequired        = "client_required"
	ReasonDueDateRequired       = "due_date_required"
	ReasonInvalidOpeningBalance = "invalid_opening_balance"
	ReasonInvalidCountedBalance = "invalid_counted_balance"
	ReasonPaymentDeclined       = "payment_declined"
	ReasonPaymentPending        = "payment_pending"
	ReasonNoOpenCashSession     = "no_open_cash_session"
	ReasonCashSessionOpen       = "cash_session_already_open"
	ReasonCashSessionClosed     = "cash_session_closed"
	ReasonConfirmationRequired  = "confirmation_required"
	ReasonEmptyCart             = "empty_cart"
	ReasonPaymentIncomplete     = "payment_incomplete"
	ReasonAlreadyPaid           = "already_paid"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Reason: ReasonNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Reason: ReasonConflict, Message: "Resource already exists"}
	ErrValidation     = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonValidation, Message: "Validation failed"}
)

// Point-of-sale errors
var (
	ErrInsufficientStock     = &AppError{Code: http.StatusConflict, Reason: ReasonInsufficientStock, Message: "Insufficient stock"}
	ErrInvalidPayment        = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInvalidPayment, Message: "Nothing left to pay"}
	ErrClientRequired        = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonClientRequired, Message: "A client must be selected for on-account payments"}
	ErrDueDateRequired       = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonDueDateRequired, Message: "A due date is required for on-account payments"}
	ErrInvalidOpeningBalance = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInvalidOpeningBalance, Message: "Opening balance must be a number greater than or equal to zero"}
	ErrInvalidCountedBalance = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInvalidCountedBalance, Message: "Counted balance must be a number greater than or equal to zero"}
	ErrPaymentDeclined       = &AppError{Code: http.StatusPaymentRequired, Reason: ReasonPaymentDeclined, Message: "Payment declined"}
	ErrPaymentPending        = &AppError{Code: http.StatusConflict, Reason: ReasonPaymentPending, Message: "A card authorization is in progress"}
	ErrNoOpenCashSession     = &AppError{Code: http.StatusConflict, Reason: ReasonNoOpenCashSession, Message: "No cash session is open"}
	ErrCashSessionOpen       = &AppError{Code: http.StatusConflict, Reason: ReasonCashSessionOpen, Message: "A cash session is already open"}
	ErrCashSessionClosed     = &AppError{Code: http.StatusConflict, Reason: ReasonCashSessionClosed, Message: "Cash session is closed"}
	ErrConfirmationRequired  = &AppError{Code: http.StatusBadRequest, Reason: ReasonConfirmationRequired, Message: "This action must be confirmed"}
	ErrEmptyCart             = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonEmptyCart, Message: "Cart is empty"}
	ErrPaymentIncomplete     = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonPaymentIncomplete, Message: "Payments do not cover the sale total"}
	ErrAlreadyPaid           = &AppError{Code: http.StatusConflict, Reason: ReasonAlreadyPaid, Message: "Receivable is already paid"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a validation error on a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: resource + " not found",
	}
}

// NewInsufficientStockError names the products that cannot cover the requested quantity
func NewInsufficientStockError(productNames ...string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Reason:  ReasonInsufficientStock,
		Message: "Insufficient stock for: " + strings.Join(productNames, ", "),
	}
}

// NewPaymentDeclinedError carries the gateway's decline message
func NewPaymentDeclinedError(message string) *AppError {
	if message == "" {
		return ErrPaymentDeclined
	}
	return &AppError{
		Code:    http.StatusPaymentRequired,
		Reason:  ReasonPaymentDeclined,
		Message: "Payment declined: " + message,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Reason:  ReasonConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
