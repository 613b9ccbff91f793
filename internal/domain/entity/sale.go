package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/declaramei/express-api/internal/domain/enum"
)

// Sale is a finalized point-of-sale transaction. It is written once by the
// checkout and never updated afterwards.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Number        string          `gorm:"size:32;unique;not null" json:"number"`
	CashSessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"cash_session_id"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OperatorName  string          `gorm:"size:255;not null" json:"operator_name"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Tendered      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tendered"`
	ChangeDue     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"change_due"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []SaleLine    `gorm:"foreignKey:SaleID" json:"lines"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// PaymentBy returns the payment made with method, if any
func (s *Sale) PaymentBy(method enum.PaymentMethod) (SalePayment, bool) {
	for _, p := range s.Payments {
		if p.Method == method {
			return p, true
		}
	}
	return SalePayment{}, false
}

// TotalPaid sums every payment of the sale
func (s *Sale) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// SaleLine is a snapshot of a cart line at finalization time
type SaleLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ItemKind  enum.ItemKind   `gorm:"size:20;not null" json:"item_kind"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	SKU       string          `gorm:"size:100" json:"sku,omitempty"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}

// SalePayment is one settled portion of a sale
type SalePayment struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	Method            enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Amount            decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	AuthorizationCode string             `gorm:"size:64" json:"authorization_code,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale payment
func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalePayment model
func (SalePayment) TableName() string {
	return "sale_payments"
}
