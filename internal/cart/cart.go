// Package cart holds the shopper's cart: an ordered set of line items keyed
// by product id, plus the repositories that keep a cart between requests.
package cart

import (
	"encoding/json"
)

// LineItem is one row of a cart. Price is the snapshot taken when the
// product was first added.
type LineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// Cart keeps at most one line per product id, in the order products were
// first added. Every line has Quantity >= 1.
//
// A Cart is not safe for concurrent use; it belongs to one shopper session.
type Cart struct {
	items []LineItem
}

// MaxQuantity caps a single line.
const MaxQuantity = 999

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add inserts item, or if a line for the same product exists, adds
// item.Quantity to it. The existing line keeps its name, price, image, size
// and color. A quantity below 1 counts as 1, and a line never exceeds
// MaxQuantity.
func (c *Cart) Add(item LineItem) {
	item.Quantity = min(max(item.Quantity, 1), MaxQuantity)
	if i := c.find(item.ID); i >= 0 {
		c.items[i].Quantity = min(c.items[i].Quantity+item.Quantity, MaxQuantity)
		return
	}
	c.items = append(c.items, item)
}

// UpdateQuantity shifts a line's quantity by delta, keeping it between 1 and
// MaxQuantity. Lines are only removed through Remove. It reports whether the
// line exists.
func (c *Cart) UpdateQuantity(id int64, delta int) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	delta = min(max(delta, -MaxQuantity), MaxQuantity)
	c.items[i].Quantity = min(max(c.items[i].Quantity+delta, 1), MaxQuantity)
	return true
}

// Remove deletes the line for id and reports whether there was one.
func (c *Cart) Remove(id int64) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total is the sum of price * quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Get(id int64) (LineItem, bool) {
	if i := c.find(id); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// Len is the number of lines.
func (c *Cart) Len() int { return len(c.items) }

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

type cartJSON struct {
	Items []LineItem `json:"items"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Items: c.Items()})
}

// UnmarshalJSON rebuilds the cart through Add, so a stored document with
// duplicate ids or bad quantities still yields a well-formed cart.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.items = nil
	for _, it := range raw.Items {
		c.Add(it)
	}
	return nil
}
