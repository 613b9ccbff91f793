package enum

import "fmt"

// CashTransactionType is the kind of a drawer movement. Amounts are always
// stored as magnitudes; the type alone decides whether they add or subtract.
type CashTransactionType string

const (
	CashTransactionOpening    CashTransactionType = "opening"
	CashTransactionSale       CashTransactionType = "sale"
	CashTransactionSupply     CashTransactionType = "supply"
	CashTransactionWithdrawal CashTransactionType = "withdrawal"
)

func (t CashTransactionType) String() string {
	return string(t)
}

func (t CashTransactionType) Validate() error {
	switch t {
	case CashTransactionOpening, CashTransactionSale, CashTransactionSupply, CashTransactionWithdrawal:
		return nil
	default:
		return fmt.Errorf("unknown cash transaction type %q", string(t))
	}
}

// IsManual reports whether operators may post this type directly
func (t CashTransactionType) IsManual() bool {
	return t == CashTransactionSupply || t == CashTransactionWithdrawal
}
