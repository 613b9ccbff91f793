package enum

import "fmt"

// PaymentMethod is how a portion of a sale was settled
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodOnAccount  PaymentMethod = "on_account"
)

func (p PaymentMethod) String() string {
	return string(p)
}

// Validate reports whether p is a known payment method
func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentMethodCash, PaymentMethodDebitCard, PaymentMethodCreditCard, PaymentMethodPix, PaymentMethodOnAccount:
		return nil
	default:
		return fmt.Errorf("unknown payment method %q", string(p))
	}
}

// IsCard reports whether the method must be authorized by the card gateway
func (p PaymentMethod) IsCard() bool {
	return p == PaymentMethodDebitCard || p == PaymentMethodCreditCard
}

// Label is the name printed on receipts
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCash:
		return "Dinheiro"
	case PaymentMethodDebitCard:
		return "Debito"
	case PaymentMethodCreditCard:
		return "Credito"
	case PaymentMethodPix:
		return "Pix"
	case PaymentMethodOnAccount:
		return "A prazo"
	}
	return string(p)
}
