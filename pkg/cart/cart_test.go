package cart

import (
	"testing"

	"github.com/example/tweenshop/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID, size, color string, price int64, qty int) models.CartItem {
	return models.CartItem{
		ID:        models.VariantID(productID, size, color),
		ProductID: productID,
		Title:     "Product " + productID,
		Price:     decimal.NewFromInt(price),
		Quantity:  qty,
		Size:      size,
		Color:     color,
	}
}

func TestAdd_MergesSameVariant(t *testing.T) {
	s := New()
	s.Add(item("p1", "M", "red", 10, 1))
	s.Add(item("p1", "M", "red", 10, 2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAdd_DifferentVariantsStaySeparate(t *testing.T) {
	s := New()
	s.Add(item("p1", "M", "red", 10, 1))
	s.Add(item("p1", "L", "red", 10, 1))
	s.Add(item("p1", "M", "blue", 10, 1))

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p1_M_red_cart", items[0].ID)
	assert.Equal(t, "p1_L_red_cart", items[1].ID)
	assert.Equal(t, "p1_M_blue_cart", items[2].ID)
}

func TestAdd_FillsMissingID(t *testing.T) {
	s := New()
	s.Add(models.CartItem{ProductID: "p2", Size: "S", Price: decimal.NewFromInt(3), Quantity: 1})

	got, ok := s.Get("p2_S__cart")
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)
}

func TestAdd_IgnoresNonPositiveQuantity(t *testing.T) {
	s := New()
	s.Add(item("p1", "", "", 10, 0))
	s.Add(item("p1", "", "", 10, -2))
	assert.True(t, s.Empty())
}

func TestAdd_NonPositiveQuantityKeepsExistingLine(t *testing.T) {
	s := New()
	s.Add(item("p1", "M", "", 10, 2))
	s.Add(item("p1", "M", "", 10, -5))

	got, ok := s.Get("p1_M__cart")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{name: "sets quantity", quantity: 5, wantLen: 1, wantQty: 5},
		{name: "zero removes", quantity: 0, wantLen: 0},
		{name: "negative removes", quantity: -1, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Add(item("p1", "M", "red", 10, 2))

			s.Update("p1_M_red_cart", tt.quantity)

			require.Equal(t, tt.wantLen, s.Len())
			if tt.wantLen > 0 {
				got, _ := s.Get("p1_M_red_cart")
				assert.Equal(t, tt.wantQty, got.Quantity)
			}
		})
	}
}

func TestUpdate_UnknownIDIsNoop(t *testing.T) {
	s := New()
	s.Add(item("p1", "", "", 10, 2))
	s.Update("missing", 7)

	got, _ := s.Get("p1___cart")
	assert.Equal(t, 2, got.Quantity)
}

func TestRemove(t *testing.T) {
	s := New()
	s.Add(item("p1", "", "", 10, 1))
	s.Add(item("p2", "", "", 10, 1))
	s.Add(item("p3", "", "", 10, 1))

	s.Remove("p2___cart")
	s.Remove("absent")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p3", items[1].ProductID)
}

func TestClear_Idempotent(t *testing.T) {
	s := New()
	s.Add(item("p1", "", "", 10, 1))

	s.Clear()
	assert.True(t, s.Empty())
	s.Clear()
	assert.True(t, s.Empty())
}

func TestTotal(t *testing.T) {
	s := New()
	s.Add(item("a", "", "", 10, 2))
	s.Add(item("b", "", "", 5, 1))

	assert.Equal(t, "25.00", s.Total().StringFixed(2))
	assert.Equal(t, 3, s.Units())
}

func TestItems_ReturnsCopy(t *testing.T) {
	s := New()
	s.Add(item("a", "", "", 10, 2))

	items := s.Items()
	items[0].Quantity = 99

	got, _ := s.Get("a___cart")
	assert.Equal(t, 2, got.Quantity)
}

func TestOrderItems(t *testing.T) {
	s := New()
	s.Add(item("a", "M", "red", 10, 2))

	out := s.OrderItems()
	require.Len(t, out, 1)
	assert.Equal(t, models.OrderItem{ProductID: "a", Title: "Product a", Price: decimal.NewFromInt(10), Quantity: 2}, out[0])
}

func TestPage(t *testing.T) {
	s := New()
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		s.Add(item(id, "", "", 1, 1))
	}

	p := s.Page(2, 5)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "f", p.Items[0].ProductID)
	assert.Equal(t, 2, p.TotalPages)
}
