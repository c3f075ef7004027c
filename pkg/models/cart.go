package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a cart. Each (ProductID, Size, Color) variant
// appears at most once.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
}

// VariantID is the cart line id used by the product page.
func VariantID(productID, size, color string) string {
	return fmt.Sprintf("%s_%s_%s_cart", productID, size, color)
}

func (i CartItem) SameVariant(o CartItem) bool {
	return i.ProductID == o.ProductID && i.Size == o.Size && i.Color == o.Color
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) OrderItem() OrderItem {
	return OrderItem{
		ProductID: i.ProductID,
		Title:     i.Title,
		Price:     i.Price,
		Quantity:  i.Quantity,
	}
}
