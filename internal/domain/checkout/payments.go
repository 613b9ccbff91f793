package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

// ConfirmEpsilon is the largest remaining balance that still counts as fully paid.
var ConfirmEpsilon = decimal.New(1, -3)

// Payment is one collected portion of the sale total.
type Payment struct {
	Method            enum.PaymentMethod `json:"method"`
	Amount            decimal.Decimal    `json:"amount"`
	AuthorizationCode string             `json:"authorization_code,omitempty"`
}

// Collector accumulates payments against a total. The total is passed in on
// every call since the cart may change between payments.
type Collector struct {
	payments []Payment
	tendered *decimal.Decimal
	clientID *uuid.UUID
	dueDate  *time.Time
}

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Payments returns a copy of the collected payments
func (c *Collector) Payments() []Payment {
	out := make([]Payment, len(c.payments))
	copy(out, c.payments)
	return out
}

// TotalPaid sums every payment
func (c *Collector) TotalPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range c.payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Remaining is max(0, total - paid)
func (c *Collector) Remaining(total decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(c.TotalPaid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CanFinalize reports whether the remaining balance is within ConfirmEpsilon.
func (c *Collector) CanFinalize(total decimal.Decimal) bool {
	return c.Remaining(total).LessThanOrEqual(ConfirmEpsilon)
}

// Overpaid reports whether the payments exceed total by more than
// ConfirmEpsilon. Change comes from the tendered cash, never from payments.
func (c *Collector) Overpaid(total decimal.Decimal) bool {
	return c.TotalPaid().Sub(total).GreaterThan(ConfirmEpsilon)
}

// Payment returns the payment made with method, if any
func (c *Collector) Payment(method enum.PaymentMethod) (Payment, bool) {
	for _, p := range c.payments {
		if p.Method == method {
			return p, true
		}
	}
	return Payment{}, false
}

// Tendered is the cash handed over by the customer. Without an explicit
// amount the cash payment itself is assumed to be exact.
func (c *Collector) Tendered() decimal.Decimal {
	if c.tendered != nil {
		return *c.tendered
	}
	if cash, ok := c.Payment(enum.PaymentMethodCash); ok {
		return cash.Amount
	}
	return decimal.Zero
}

// HasExplicitTendered reports whether SetTendered was called with a value
func (c *Collector) HasExplicitTendered() bool {
	return c.tendered != nil
}

// ChangeDue is the change owed to the customer. Only cash produces change.
func (c *Collector) ChangeDue(total decimal.Decimal) decimal.Decimal {
	cash, ok := c.Payment(enum.PaymentMethodCash)
	if !ok {
		return decimal.Zero
	}
	paid := c.TotalPaid()
	if paid.LessThan(total) {
		return decimal.Zero
	}

	surplus := paid.Sub(total)
	change := c.Tendered().Sub(cash.Amount.Sub(surplus))
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// Prepare validates a new payment without appending it. A nil amount means
// the remaining balance.
func (c *Collector) Prepare(method enum.PaymentMethod, amount *decimal.Decimal, total decimal.Decimal) (Payment, error) {
	if err := method.Validate(); err != nil {
		return Payment{}, apperror.NewFieldError("method", err.Error())
	}

	remaining := c.Remaining(total)
	if !remaining.IsPositive() {
		return Payment{}, apperror.ErrInvalidPayment
	}

	if method == enum.PaymentMethodOnAccount {
		if c.clientID == nil {
			return Payment{}, apperror.ErrClientRequired
		}
		if c.dueDate == nil {
			return Payment{}, apperror.ErrDueDateRequired
		}
	}

	if _, exists := c.Payment(method); exists {
		return Payment{}, apperror.NewFieldError("method", "A payment with this method was already added")
	}

	value := remaining
	if amount != nil {
		if !amount.IsPositive() {
			return Payment{}, apperror.NewFieldError("amount", "Amount must be greater than zero")
		}
		if amount.GreaterThan(remaining) {
			return Payment{}, apperror.NewFieldError("amount", "Amount exceeds the remaining balance")
		}
		value = *amount
	}

	return Payment{Method: method, Amount: value}, nil
}

// Append adds a prepared payment after checking it still fits the balance.
func (c *Collector) Append(p Payment, total decimal.Decimal) error {
	if _, exists := c.Payment(p.Method); exists {
		return apperror.NewFieldError("method", "A payment with this method was already added")
	}
	if p.Amount.GreaterThan(c.Remaining(total)) {
		return apperror.ErrInvalidPayment
	}
	c.payments = append(c.payments, p)
	return nil
}

// AddPayment prepares and appends in one step. Card payments must go through
// the gateway instead.
func (c *Collector) AddPayment(method enum.PaymentMethod, amount *decimal.Decimal, total decimal.Decimal) (Payment, error) {
	p, err := c.Prepare(method, amount, total)
	if err != nil {
		return Payment{}, err
	}
	if err := c.Append(p, total); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// RemovePayment drops the payment at index. Removing cash forgets the
// tendered amount; removing on-account forgets the due date.
func (c *Collector) RemovePayment(index int) (Payment, error) {
	if index < 0 || index >= len(c.payments) {
		return Payment{}, apperror.NewNotFoundError("Payment")
	}

	removed := c.payments[index]
	c.payments = append(c.payments[:index], c.payments[index+1:]...)

	switch removed.Method {
	case enum.PaymentMethodCash:
		c.tendered = nil
	case enum.PaymentMethodOnAccount:
		c.dueDate = nil
	}
	return removed, nil
}

// SetTendered records the cash handed over; nil clears it.
func (c *Collector) SetTendered(amount *decimal.Decimal) error {
	if amount == nil {
		c.tendered = nil
		return nil
	}
	if amount.IsNegative() {
		return apperror.NewFieldError("tendered", "Tendered amount must not be negative")
	}
	v := *amount
	c.tendered = &v
	return nil
}

// ClientID is the customer selected for the sale
func (c *Collector) ClientID() *uuid.UUID {
	return c.clientID
}

// SetClient selects or clears the customer
func (c *Collector) SetClient(id *uuid.UUID) {
	if id == nil {
		c.clientID = nil
		return
	}
	v := *id
	c.clientID = &v
}

// DueDate is the on-account due date
func (c *Collector) DueDate() *time.Time {
	return c.dueDate
}

// SetDueDate selects or clears the on-account due date
func (c *Collector) SetDueDate(date *time.Time) {
	if date == nil {
		c.dueDate = nil
		return
	}
	v := *date
	c.dueDate = &v
}

// Reset forgets every payment and selection
func (c *Collector) Reset() {
	c.payments = nil
	c.tendered = nil
	c.clientID = nil
	c.dueDate = nil
}
