package admin

import (
	"cmp"
	"slices"
	"time"

	"github.com/example/tweenshop/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	LowStockThreshold = 5
	topProductsLimit  = 6
	recentOrdersLimit = 5
	dashboardDays     = 7
)

// statusValidated is a legacy completed status found in older records.
const statusValidated models.OrderStatus = "validée"

type StockEntry struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type SalesEntry struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Dashboard struct {
	TotalProducts     int             `json:"totalProducts"`
	PendingOrders     int             `json:"pendingOrders"`
	Revenue           decimal.Decimal `json:"revenue"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStockCount     int             `json:"lowStockCount"`
	LowStock          []StockEntry    `json:"lowStock"`
	TopProducts       []SalesEntry    `json:"topProducts"`
	LastDays          []DayCount      `json:"lastDays"`
	RecentOrders      []models.Order  `json:"recentOrders"`
}

// ComputeDashboard derives the back office figures. Days are UTC calendar
// dates ending with now's date.
func ComputeDashboard(orders []models.Order, products []models.Product, now time.Time) Dashboard {
	d := Dashboard{
		TotalProducts:     len(products),
		Revenue:           decimal.Zero,
		LowStockThreshold: LowStockThreshold,
		LowStock:          []StockEntry{},
		TopProducts:       []SalesEntry{},
		LastDays:          make([]DayCount, 0, dashboardDays),
		RecentOrders:      []models.Order{},
	}

	for _, o := range orders {
		switch o.EffectiveStatus() {
		case models.OrderStatusPending:
			d.PendingOrders++
		case models.OrderStatusCompleted, statusValidated:
			d.Revenue = d.Revenue.Add(o.Total)
		}
	}

	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			d.LowStock = append(d.LowStock, StockEntry{Name: p.Title, Stock: p.Stock})
		}
	}
	d.LowStockCount = len(d.LowStock)

	d.TopProducts = topProducts(orders, products)

	perDay := make(map[string]int, len(orders))
	for _, o := range orders {
		perDay[o.Date.UTC().Format(time.DateOnly)]++
	}
	for i := dashboardDays - 1; i >= 0; i-- {
		key := now.UTC().AddDate(0, 0, -i).Format(time.DateOnly)
		d.LastDays = append(d.LastDays, DayCount{Date: key, Count: perDay[key]})
	}

	for i := len(orders) - 1; i >= 0 && len(d.RecentOrders) < recentOrdersLimit; i-- {
		d.RecentOrders = append(d.RecentOrders, orders[i])
	}
	return d
}

// topProducts ranks products by units sold. Ties keep first-seen order.
func topProducts(orders []models.Order, products []models.Product) []SalesEntry {
	titles := make(map[string]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}

	var ids []string
	sales := make(map[string]int)
	for _, o := range orders {
		for _, it := range o.Items {
			if _, seen := sales[it.ProductID]; !seen {
				ids = append(ids, it.ProductID)
			}
			sales[it.ProductID] += it.Quantity
		}
	}

	out := make([]SalesEntry, 0, len(ids))
	for _, id := range ids {
		name, ok := titles[id]
		if !ok {
			name = id
		}
		out = append(out, SalesEntry{Name: name, Sales: sales[id]})
	}
	slices.SortStableFunc(out, func(a, b SalesEntry) int {
		return cmp.Compare(b.Sales, a.Sales)
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}
