package service

import (
	"github.com/shopspring/decimal"
)

// LineItem is one ordered dish in a seating unit's working order. The price is
// captured when the item is added and never re-read.
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt32(li.Quantity))
}

// Cart is the working order of a seating unit. It is serialized into a Sale
// only at checkout.
type Cart struct {
	items []LineItem
}

// Add appends name with quantity 1, or bumps the quantity of an existing line
// with the same name. The price of an existing line is kept.
func (c *Cart) Add(name string, unitPrice decimal.Decimal) {
	for i := range c.items {
		if c.items[i].Name == name {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{Name: name, UnitPrice: unitPrice, Quantity: 1})
}

// Remove deletes the line at index. Out-of-range indices are ignored and
// reported as false.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return true
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal is the sum of every line total.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.items)
}

// Subtotal sums unit price times quantity over items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.LineTotal())
	}
	return sum
}
