package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the snapshot written at checkout confirmation. Only Status
// changes after creation.
type Order struct {
	ID     string          `json:"id"`
	Items  []OrderItem     `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Date   time.Time       `json:"date"`
	Status OrderStatus     `json:"status,omitempty"`
}

type OrderItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// EffectiveStatus treats records stored without a status as pending.
func (o Order) EffectiveStatus() OrderStatus {
	if o.Status == "" {
		return OrderStatusPending
	}
	return o.Status
}

func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	return c
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems returns Σ price×quantity.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// OrderRecord is the relational row for an Order.
type OrderRecord struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Items       string          `gorm:"type:text" json:"items"` // JSON string
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (OrderRecord) TableName() string {
	return "orders"
}
