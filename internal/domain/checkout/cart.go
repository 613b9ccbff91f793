// Package checkout holds the in-progress state of a sale: the cart and the
// payments collected against its total. Both types are plain values guarded by
// the caller; they perform no I/O.
package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/enum"
	"github.com/declaramei/express-api/pkg/apperror"
)

// Line is one cart entry. UnitPrice is the item's price when first added.
type Line struct {
	Item      entity.SellableItem `json:"item"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	LineTotal decimal.Decimal     `json:"line_total"`
}

func (l *Line) recompute() {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines of the sale being rung up.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds one unit of item, merging with an existing line of the same kind and id.
func (c *Cart) AddItem(item entity.SellableItem) Line {
	if i := c.index(item.Key()); i >= 0 {
		c.lines[i].Quantity++
		c.lines[i].recompute()
		return c.lines[i]
	}

	line := Line{
		Item:      item,
		Quantity:  1,
		UnitPrice: item.Price,
	}
	line.recompute()
	c.lines = append(c.lines, line)
	return line
}

// SetQuantity changes a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(kind enum.ItemKind, id uuid.UUID, quantity int) error {
	i := c.index(entity.ItemKey{Kind: kind, ID: id})
	if i < 0 {
		return apperror.NewNotFoundError("Cart item")
	}

	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}

	c.lines[i].Quantity = quantity
	c.lines[i].recompute()
	return nil
}

// TotalAfter is the cart total SetQuantity(kind, id, quantity) would leave,
// without changing the cart.
func (c *Cart) TotalAfter(kind enum.ItemKind, id uuid.UUID, quantity int) (decimal.Decimal, error) {
	i := c.index(entity.ItemKey{Kind: kind, ID: id})
	if i < 0 {
		return decimal.Zero, apperror.NewNotFoundError("Cart item")
	}

	total := c.Total().Sub(c.lines[i].LineTotal)
	if quantity > 0 {
		total = total.Add(c.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return total, nil
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Subtotal is the sum of all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	return subtotal
}

// Discount is always zero until discounts are supported.
func (c *Cart) Discount() decimal.Decimal {
	return decimal.Zero
}

// Total is what the customer owes
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Sub(c.Discount())
}

// ProductQuantities sums the requested quantity per product id. Services are skipped.
func (c *Cart) ProductQuantities() map[uuid.UUID]int {
	quantities := make(map[uuid.UUID]int)
	for _, l := range c.lines {
		if l.Item.IsProduct() {
			quantities[l.Item.ID] += l.Quantity
		}
	}
	return quantities
}

// Clear removes every line
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(key entity.ItemKey) int {
	for i, l := range c.lines {
		if l.Item.Key() == key {
			return i
		}
	}
	return -1
}
