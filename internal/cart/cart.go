package cart

import "github.com/shopspring/decimal"

// LineItem is one purchasable entry in a session's cart. ID is the backend
// product id, or the variant id for grouped products. Price and Stock are the
// snapshot taken when the item entered the cart; the commerce backend remains
// the authority at order time.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Quantity int             `json:"quantity"`
}

// ProductSnapshot is what Add needs to know about a purchasable product.
type ProductSnapshot struct {
	ID       string
	Name     string
	Image    string
	Category string
	Price    decimal.Decimal
	Stock    int
}

// Cart holds an ordered line-item list with no duplicate ids. Every mutation
// keeps the invariant 1 <= Quantity <= Stock for each line; a quantity driven
// to zero or below removes the line instead.
type Cart struct {
	lines []LineItem
}

// New builds a cart over the given lines. The slice is copied.
func New(lines []LineItem) *Cart {
	c := &Cart{}
	if len(lines) > 0 {
		c.lines = make([]LineItem, len(lines))
		copy(c.lines, lines)
	}
	return c
}

// Add inserts the product with quantity 1, or increments an existing line.
// It reports whether the mutation was applied: false when the product is out
// of stock or the line already sits at its stock ceiling. An existing line's
// snapshot fields are refreshed from the incoming product first, so a restock
// raises the ceiling and a price change is reflected on the next add.
func (c *Cart) Add(p ProductSnapshot) bool {
	for i := range c.lines {
		if c.lines[i].ID != p.ID {
			continue
		}
		c.lines[i].Name = p.Name
		c.lines[i].Image = p.Image
		c.lines[i].Category = p.Category
		c.lines[i].Price = p.Price
		c.lines[i].Stock = p.Stock
		if c.lines[i].Quantity >= p.Stock {
			return false
		}
		c.lines[i].Quantity++
		return true
	}

	if p.Stock <= 0 {
		return false
	}
	c.lines = append(c.lines, LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Image:    p.Image,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
		Quantity: 1,
	})
	return true
}

// Remove deletes the line with the given id. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity. Values at or below zero remove
// the line; when maxStock is provided the quantity is clamped to it. Setting
// a quantity on an absent id is a no-op.
func (c *Cart) SetQuantity(id string, qty int, maxStock ...int) {
	if qty <= 0 {
		c.Remove(id)
		return
	}
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		if len(maxStock) > 0 && qty > maxStock[0] {
			qty = maxStock[0]
		}
		if qty <= 0 {
			c.Remove(id)
			return
		}
		c.lines[i].Quantity = qty
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Quantity returns the quantity for the given id, zero when absent.
func (c *Cart) Quantity(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return c.lines[i].Quantity
		}
	}
	return 0
}

// Items returns a copy of the line-item list in insertion order.
func (c *Cart) Items() []LineItem {
	if len(c.lines) == 0 {
		return nil
	}
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalItems sums the quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.lines {
		total += c.lines[i].Quantity
	}
	return total
}

// TotalPrice sums price times quantity across all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.lines {
		total = total.Add(c.lines[i].Price.Mul(decimal.NewFromInt(int64(c.lines[i].Quantity))))
	}
	return total
}
