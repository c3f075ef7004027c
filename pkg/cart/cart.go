// Package cart holds a visitor's selected-but-unpurchased items.
//
// Every line keeps a quantity of at least one. Add never fails, but an item
// with a quantity of zero or less leaves the cart unchanged, and Update to
// such a quantity removes the line.
package cart

import (
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/shopspring/decimal"
)

// Store is an ordered list of cart lines. It is not safe for concurrent
// use; a Store is owned by exactly one shopper actor.
type Store struct {
	items []models.CartItem
}

func New() *Store {
	return &Store{}
}

// Add merges item into the line with the same (product, size, color)
// variant, or appends it. Lines keep quantity >= 1, so a non-positive
// quantity is ignored.
func (s *Store) Add(item models.CartItem) {
	if item.Quantity <= 0 {
		return
	}
	for i := range s.items {
		if s.items[i].SameVariant(item) {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	if item.ID == "" {
		item.ID = models.VariantID(item.ProductID, item.Size, item.Color)
	}
	s.items = append(s.items, item)
}

// Update sets the quantity of line id. quantity <= 0 removes the line.
func (s *Store) Update(id string, quantity int) {
	if quantity <= 0 {
		s.Remove(id)
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return
		}
	}
}

func (s *Store) Remove(id string) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	clear(s.items[len(kept):])
	s.items = kept
}

func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []models.CartItem {
	return append([]models.CartItem(nil), s.items...)
}

func (s *Store) Get(id string) (models.CartItem, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.CartItem{}, false
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Empty() bool {
	return len(s.items) == 0
}

func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Units is the number of pieces across all lines.
func (s *Store) Units() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// OrderItems snapshots the lines as order items.
func (s *Store) OrderItems() []models.OrderItem {
	out := make([]models.OrderItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.OrderItem())
	}
	return out
}

// Page returns one page of lines.
func (s *Store) Page(page, perPage int) paging.Page[models.CartItem] {
	return paging.New(s.Items(), page, perPage)
}
