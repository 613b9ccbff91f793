package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/declaramei/express-api/internal/domain/enum"
)

// Product represents a stocked item in the catalog
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SKU        string          `gorm:"size:100;unique;not null" json:"sku"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	StockAlert int             `gorm:"not null;default:0" json:"stock_alert"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock reached the alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.StockAlert
}

// Sellable returns the product as a cart-ready item
func (p *Product) Sellable() SellableItem {
	stock := p.Stock
	return SellableItem{
		Kind:  enum.ItemKindProduct,
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		SKU:   p.SKU,
		Stock: &stock,
	}
}

// Service represents a non-stocked offering (haircut, repair, consulting hour)
type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new service
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// Sellable returns the service as a cart-ready item
func (s *Service) Sellable() SellableItem {
	return SellableItem{
		Kind:  enum.ItemKindService,
		ID:    s.ID,
		Name:  s.Name,
		Price: s.Price,
	}
}

// SellableItem is the tagged union of Product and Service seen by the cart.
// SKU and Stock are only set for products.
type SellableItem struct {
	Kind  enum.ItemKind   `json:"kind"`
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	SKU   string          `json:"sku,omitempty"`
	Stock *int            `json:"stock,omitempty"`
}

// Key identifies the item across kinds
func (i SellableItem) Key() ItemKey {
	return ItemKey{Kind: i.Kind, ID: i.ID}
}

// IsProduct reports whether the item carries stock
func (i SellableItem) IsProduct() bool {
	return i.Kind == enum.ItemKindProduct
}

// ItemKey is the identity of a sellable item: ids are only unique within a kind
type ItemKey struct {
	Kind enum.ItemKind
	ID   uuid.UUID
}
