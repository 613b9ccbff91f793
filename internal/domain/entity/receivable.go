package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

// AccountReceivable is the deferred portion of an on-account sale
type AccountReceivable struct {
	ID          uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex" json:"sale_id"`
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index" json:"customer_id"`
	Amount      decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"amount"`
	IssueDate   time.Time             `gorm:"not null" json:"issue_date"`
	DueDate     time.Time             `gorm:"type:date;not null;index" json:"due_date"`
	Status      enum.ReceivableStatus `gorm:"not null;default:0;index" json:"status"`
	PaymentDate *time.Time            `json:"payment_date,omitempty"`
	Overdue     bool                  `gorm:"-" json:"overdue"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receivable
func (r *AccountReceivable) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AccountReceivable model
func (AccountReceivable) TableName() string {
	return "accounts_receivable"
}

// IsOverdue reports whether a pending receivable passed its due date
func (r *AccountReceivable) IsOverdue(now time.Time) bool {
	return r.Status == enum.ReceivablePending && now.After(endOfDay(r.DueDate))
}

// MarkPaid settles the receivable
func (r *AccountReceivable) MarkPaid(at time.Time) error {
	if r.Status == enum.ReceivablePaid {
		return apperror.ErrAlreadyPaid
	}
	paidAt := at
	r.Status = enum.ReceivablePaid
	r.PaymentDate = &paidAt
	r.Overdue = false
	return nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
