package request

import "encoding/json"

// OpenCashSessionRequest represents a request to open the cash drawer
type OpenCashSessionRequest struct {
	OperatorName   string          `json:"operator_name" binding:"max=100"`
	OpeningBalance json.RawMessage `json:"opening_balance"`
}

// CashMovementRequest represents a supply or withdrawal
type CashMovementRequest struct {
	Type         string          `json:"type" binding:"required"`
	Amount       json.RawMessage `json:"amount"`
	Description  string          `json:"description" binding:"max=255"`
	OperatorName string          `json:"operator_name" binding:"max=100"`
}

// CloseCashSessionRequest represents a request to close the cash drawer
type CloseCashSessionRequest struct {
	CountedBalance json.RawMessage `json:"counted_balance"`
	Confirm        bool            `json:"confirm"`
}

// CashSessionFilterRequest represents cash session filter parameters
type CashSessionFilterRequest struct {
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
