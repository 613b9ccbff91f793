package request

import "encoding/json"

// AddItemRequest adds one unit of a product or service to the cart
type AddItemRequest struct {
	Kind string `json:"kind" binding:"required,oneof=product service"`
	ID   string `json:"id" binding:"required,uuid"`
}

// SetQuantityRequest sets a cart line quantity; zero or less removes the line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// AddPaymentRequest adds a payment; a missing amount pays the remaining balance
type AddPaymentRequest struct {
	Method string          `json:"method" binding:"required"`
	Amount json.RawMessage `json:"amount"`
}

// SetTenderedRequest records the cash handed over; null clears it
type SetTenderedRequest struct {
	Tendered json.RawMessage `json:"tendered"`
}

// SetCustomerRequest selects the customer; null clears it
type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id" binding:"omitempty,uuid"`
}

// SetDueDateRequest sets the on-account due date as YYYY-MM-DD; null clears it
type SetDueDateRequest struct {
	DueDate *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}
