// Package gateway authorizes card payments with an acquirer.
package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Request is a card authorization for one payment
type Request struct {
	// Reference identifies the attempt; acquirers use it to deduplicate retries
	Reference string          `json:"reference"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
}

// Authorization is an approved request
type Authorization struct {
	Code       string    `json:"authorization_code"`
	ApprovedAt time.Time `json:"approved_at"`
}

// Authorizer approves or declines card payments. A decline is reported as a
// *DeclinedError; any other error means the outcome is unknown.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (Authorization, error)
}

// DeclinedError is returned when the acquirer refuses the payment
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	if e.Message == "" {
		return "payment declined"
	}
	return "payment declined: " + e.Message
}
