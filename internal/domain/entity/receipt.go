package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CNPJ      string `json:"cnpj,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptPayment is one payment line printed under the totals.
type ReceiptPayment struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is a value object composed from a sale at print time; it is not persisted.
type Receipt struct {
	Header    ReceiptHeader    `json:"header"`
	Number    string           `json:"number"`
	Date      string           `json:"date"`
	Operator  string           `json:"operator,omitempty"`
	Customer  string           `json:"customer,omitempty"`
	Items     []ReceiptItem    `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Discount  decimal.Decimal  `json:"discount"`
	Total     decimal.Decimal  `json:"total"`
	Payments  []ReceiptPayment `json:"payments"`
	Tendered  decimal.Decimal  `json:"tendered"`
	ChangeDue decimal.Decimal  `json:"change_due"`
	DueDate   string           `json:"due_date,omitempty"`
}

// CashReport is the printable closing summary of a cash session.
type CashReport struct {
	Header         ReceiptHeader    `json:"header"`
	SessionID      string           `json:"session_id"`
	Operator       string           `json:"operator"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       string           `json:"closed_at,omitempty"`
	Totals         CashTotals       `json:"totals"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	Movements      int              `json:"movements"`
}
