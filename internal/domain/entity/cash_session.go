package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

// CashSession is one drawer-open-to-close accounting period.
// A session moves Open -> Closed exactly once and is never reopened.
type CashSession struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	OperatorName    string                 `gorm:"size:255;not null" json:"operator_name"`
	OpeningBalance  decimal.Decimal        `gorm:"type:decimal(12,2);not null" json:"opening_balance"`
	OpenedAt        time.Time              `gorm:"not null" json:"opened_at"`
	Status          enum.CashSessionStatus `gorm:"not null;default:0;index" json:"status"`
	ClosedAt        *time.Time             `json:"closed_at,omitempty"`
	ClosingBalance  *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"closing_balance,omitempty"`
	ExpectedBalance *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"expected_balance,omitempty"`
	Difference      *decimal.Decimal       `gorm:"type:decimal(12,2)" json:"difference,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`

	// Relationships
	Transactions []CashTransaction `gorm:"foreignKey:CashSessionID" json:"transactions"`
}

// BeforeCreate generates a UUID before creating a new cash session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// CashTransaction is an append-only drawer movement. Amount is a non-negative
// magnitude; its direction comes from Type.
type CashTransaction struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	CashSessionID uuid.UUID                `gorm:"type:uuid;not null;index" json:"cash_session_id"`
	Type          enum.CashTransactionType `gorm:"size:20;not null" json:"type"`
	Amount        decimal.Decimal          `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   string                   `gorm:"size:255;not null" json:"description"`
	OperatorName  string                   `gorm:"size:255;not null" json:"operator_name"`
	SaleID        *uuid.UUID               `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	CreatedAt     time.Time                `gorm:"not null" json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new cash transaction
func (t *CashTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashTransaction model
func (CashTransaction) TableName() string {
	return "cash_transactions"
}

// CashTotals aggregates a session's ledger
type CashTotals struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Sales          decimal.Decimal `json:"sales"`
	Supplies       decimal.Decimal `json:"supplies"`
	Withdrawals    decimal.Decimal `json:"withdrawals"`
	Expected       decimal.Decimal `json:"expected"`
}

// CashEntry is the input for posting a drawer movement
type CashEntry struct {
	Type         enum.CashTransactionType
	Amount       decimal.Decimal
	Description  string
	OperatorName string
	SaleID       *uuid.UUID
}

// OpenCashSession starts a session and records the synthetic opening movement.
func OpenCashSession(operatorName string, openingBalance decimal.Decimal, at time.Time) (*CashSession, error) {
	operatorName = strings.TrimSpace(operatorName)
	if operatorName == "" {
		return nil, apperror.NewFieldError("operator_name", "Operator name is required")
	}
	if openingBalance.IsNegative() {
		return nil, apperror.ErrInvalidOpeningBalance
	}

	s := &CashSession{
		ID:             uuid.New(),
		OperatorName:   operatorName,
		OpeningBalance: openingBalance,
		OpenedAt:       at,
		Status:         enum.CashSessionOpen,
	}
	s.Transactions = []CashTransaction{{
		ID:            uuid.New(),
		CashSessionID: s.ID,
		Type:          enum.CashTransactionOpening,
		Amount:        openingBalance,
		Description:   "Abertura de caixa",
		OperatorName:  operatorName,
		CreatedAt:     at,
	}}
	return s, nil
}

// IsOpen reports whether the session still accepts movements
func (s *CashSession) IsOpen() bool {
	return s.Status == enum.CashSessionOpen
}

// Record validates and appends a movement, returning the stored transaction.
// Opening movements are only created by OpenCashSession.
func (s *CashSession) Record(entry CashEntry, at time.Time) (CashTransaction, error) {
	if !s.IsOpen() {
		return CashTransaction{}, apperror.ErrCashSessionClosed
	}
	if err := entry.Type.Validate(); err != nil {
		return CashTransaction{}, apperror.NewFieldError("type", err.Error())
	}
	if entry.Type == enum.CashTransactionOpening {
		return CashTransaction{}, apperror.NewFieldError("type", "Opening movements cannot be posted")
	}
	if entry.Amount.IsNegative() {
		return CashTransaction{}, apperror.NewFieldError("amount", "Amount must not be negative")
	}

	description := strings.TrimSpace(entry.Description)
	if entry.Type.IsManual() {
		var fieldErrors []apperror.FieldError
		if !entry.Amount.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
		}
		if description == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "Description is required"})
		}
		if len(fieldErrors) > 0 {
			return CashTransaction{}, apperror.NewValidationError(fieldErrors)
		}
	}
	if entry.Type == enum.CashTransactionWithdrawal && entry.Amount.GreaterThan(s.Totals().Expected) {
		return CashTransaction{}, apperror.NewFieldError("amount", "Withdrawal exceeds the drawer balance")
	}

	operator := entry.OperatorName
	if operator == "" {
		operator = s.OperatorName
	}

	tx := CashTransaction{
		ID:            uuid.New(),
		CashSessionID: s.ID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		Description:   description,
		OperatorName:  operator,
		SaleID:        entry.SaleID,
		CreatedAt:     at,
	}
	s.Transactions = append(s.Transactions, tx)
	return tx, nil
}

// Totals aggregates the ledger. The opening balance comes from the session
// itself; the Opening movement only documents it.
func (s *CashSession) Totals() CashTotals {
	totals := CashTotals{
		OpeningBalance: s.OpeningBalance,
		Sales:          decimal.Zero,
		Supplies:       decimal.Zero,
		Withdrawals:    decimal.Zero,
	}
	for _, tx := range s.Transactions {
		switch tx.Type {
		case enum.CashTransactionSale:
			totals.Sales = totals.Sales.Add(tx.Amount)
		case enum.CashTransactionSupply:
			totals.Supplies = totals.Supplies.Add(tx.Amount)
		case enum.CashTransactionWithdrawal:
			totals.Withdrawals = totals.Withdrawals.Add(tx.Amount)
		}
	}
	totals.Expected = totals.OpeningBalance.
		Add(totals.Sales).
		Add(totals.Supplies).
		Sub(totals.Withdrawals)
	return totals
}

// Close reconciles the counted cash against the ledger and ends the session.
func (s *CashSession) Close(countedBalance decimal.Decimal, at time.Time) error {
	if !s.IsOpen() {
		return apperror.ErrCashSessionClosed
	}
	if countedBalance.IsNegative() {
		return apperror.ErrInvalidCountedBalance
	}

	expected := s.Totals().Expected
	difference := countedBalance.Sub(expected)
	closedAt := at

	s.Status = enum.CashSessionClosed
	s.ClosedAt = &closedAt
	s.ClosingBalance = &countedBalance
	s.ExpectedBalance = &expected
	s.Difference = &difference
	return nil
}
