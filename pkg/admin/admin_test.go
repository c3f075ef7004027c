package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type auditEntry struct {
	action, entityID string
}

type fakeAudit struct {
	entries []auditEntry
	err     error
}

func (f *fakeAudit) Record(_ context.Context, action, entityID string, _ map[string]interface{}) error {
	f.entries = append(f.entries, auditEntry{action, entityID})
	return f.err
}

func newBackOffice(t *testing.T) (*BackOffice, *repository.LocalStore, *fakeAudit) {
	t.Helper()
	store := repository.NewLocalStore(repository.NewMemoryKV(), catalog.MustLoadFixtures())
	audit := &fakeAudit{}
	b := NewBackOffice(repository.NewKVOrderRepository(store), store, audit, zap.NewNop())
	return b, store, audit
}

func seedOrders(t *testing.T, b *BackOffice, ids ...string) {
	t.Helper()
	repo := b.Orders.repo
	for _, id := range ids {
		require.NoError(t, repo.AppendOrder(context.Background(), models.Order{ID: id, Status: models.OrderStatusPending}))
	}
}

func TestConfirmation(t *testing.T) {
	var c Confirmation
	_, ok := c.Pending()
	assert.False(t, ok)

	c.Request("a")
	c.Request("b")
	id, ok := c.Pending()
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	id, ok = c.Confirm()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
	_, ok = c.Confirm()
	assert.False(t, ok)

	c.Request("c")
	c.Cancel()
	_, ok = c.Pending()
	assert.False(t, ok)
}

func TestSetStatus_OverwriteIsIdempotent(t *testing.T) {
	b, _, audit := newBackOffice(t)
	ctx := context.Background()
	seedOrders(t, b, "ord_1")

	require.NoError(t, b.Orders.SetStatus(ctx, "ord_1", models.OrderStatusCompleted))
	require.NoError(t, b.Orders.SetStatus(ctx, "ord_1", models.OrderStatusCompleted))

	orders, err := b.Orders.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
	assert.Len(t, audit.entries, 2)
}

func TestSetStatus_Errors(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()
	seedOrders(t, b, "ord_1")

	assert.ErrorIs(t, b.Orders.SetStatus(ctx, "ord_1", "shipped"), ErrInvalidStatus)
	assert.ErrorIs(t, b.Orders.SetStatus(ctx, "ord_x", models.OrderStatusCancelled), ErrOrderNotFound)
}

func TestSetStatus_AuditFailureIsNotFatal(t *testing.T) {
	b, _, audit := newBackOffice(t)
	audit.err = errors.New("mongo down")
	seedOrders(t, b, "ord_1")

	assert.NoError(t, b.Orders.SetStatus(context.Background(), "ord_1", models.OrderStatusCancelled))
}

func TestDeleteOrder_TwoPhase(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()
	seedOrders(t, b, "ord_1", "ord_2")
	var c Confirmation

	require.NoError(t, b.Orders.RequestDelete(ctx, &c, "ord_1"))
	orders, _ := b.Orders.All(ctx)
	assert.Len(t, orders, 2, "nothing deleted before confirmation")

	id, err := b.Orders.ConfirmDelete(ctx, &c)
	require.NoError(t, err)
	assert.Equal(t, "ord_1", id)
	orders, _ = b.Orders.All(ctx)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord_2", orders[0].ID)

	_, err = b.Orders.ConfirmDelete(ctx, &c)
	assert.ErrorIs(t, err, ErrNoPendingConfirmation)
}

func TestDeleteOrder_Cancel(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()
	seedOrders(t, b, "ord_1")
	var c Confirmation

	require.NoError(t, b.Orders.RequestDelete(ctx, &c, "ord_1"))
	c.Cancel()
	_, err := b.Orders.ConfirmDelete(ctx, &c)
	assert.ErrorIs(t, err, ErrNoPendingConfirmation)

	orders, _ := b.Orders.All(ctx)
	assert.Len(t, orders, 1)

	assert.ErrorIs(t, b.Orders.RequestDelete(ctx, &c, "ord_x"), ErrOrderNotFound)
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestOrdersList_Pages(t *testing.T) {
	b, _, _ := newBackOffice(t)
	seedOrders(t, b, "o1", "o2", "o3", "o4", "o5", "o6")

	page, err := b.Orders.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "o6", page.Items[0].ID)
}

func TestCreateProduct(t *testing.T) {
	b, store, _ := newBackOffice(t)
	ctx := context.Background()

	_, err := b.Products.Create(ctx, ProductInput{Title: "Robe"})
	assert.ErrorIs(t, err, ErrImageRequired)

	p, err := b.Products.Create(ctx, ProductInput{
		Title:  "Robe  d'été",
		Price:  decimal.RequireFromString("19.90"),
		Images: []string{"https://cdn/robe.jpg"},
		Stock:  3,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^prod_\d+$`, p.ID)
	assert.Equal(t, "robe-d'été", p.Slug)
	assert.Equal(t, "EUR", p.Currency)

	products, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, products[len(products)-1].ID)
}

func TestUpdateProduct_KeepsSlug(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()
	title := "Nouvelle robe"
	stock := 1

	p, err := b.Products.Update(ctx, "prod_1004", ProductPatch{Title: &title, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle robe", p.Title)
	assert.Equal(t, "robe-wax-fillette", p.Slug)
	assert.Equal(t, 1, p.Stock)
	assert.Len(t, p.Images, 3)

	_, err = b.Products.Update(ctx, "prod_1004", ProductPatch{Images: []string{}})
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = b.Products.Update(ctx, "prod_1007", ProductPatch{Stock: &stock})
	assert.ErrorIs(t, err, ErrImageRequired, "product still has no image")

	_, err = b.Products.Update(ctx, "nope", ProductPatch{Stock: &stock})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_TwoPhase(t *testing.T) {
	b, store, _ := newBackOffice(t)
	ctx := context.Background()
	before, _ := store.Products(ctx)
	var c Confirmation

	require.NoError(t, b.Products.RequestDelete(ctx, &c, "prod_1001"))
	id, err := b.Products.ConfirmDelete(ctx, &c)
	require.NoError(t, err)
	assert.Equal(t, "prod_1001", id)

	after, _ := store.Products(ctx)
	assert.Len(t, after, len(before)-1)

	assert.ErrorIs(t, b.Products.RequestDelete(ctx, &c, "prod_1001"), ErrProductNotFound)
}

func TestAddCategory(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()

	_, err := b.Products.AddCategory(ctx, "   ")
	assert.ErrorIs(t, err, ErrCategoryNameRequired)

	cat, err := b.Products.AddCategory(ctx, " Tenues de fête ")
	require.NoError(t, err)
	assert.Equal(t, "Tenues de fête", cat.Name)
	assert.Equal(t, "tenues-de-fête", cat.Slug)
	assert.Regexp(t, `^cat_\d+$`, cat.ID)

	cats, err := b.Products.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, cats[len(cats)-1].ID)
}

func TestSettings_SaveAndGet(t *testing.T) {
	b, _, _ := newBackOffice(t)
	ctx := context.Background()

	s, err := b.Settings.Get(ctx)
	require.NoError(t, err)
	s.SiteTitle = "Nouvelle boutique"
	require.NoError(t, b.Settings.Save(ctx, s))

	got, err := b.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nouvelle boutique", got.SiteTitle)
}

func TestComputeDashboard(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 3, d, 9, 0, 0, 0, time.UTC) }
	item := func(id string, q int) models.OrderItem { return models.OrderItem{ProductID: id, Quantity: q} }

	orders := []models.Order{
		{ID: "o1", Date: day(10), Total: decimal.NewFromInt(10), Items: []models.OrderItem{item("a", 1)}},
		{ID: "o2", Date: day(10), Total: decimal.NewFromInt(20), Status: models.OrderStatusCompleted, Items: []models.OrderItem{item("b", 3)}},
		{ID: "o3", Date: day(8), Total: decimal.NewFromInt(5), Status: statusValidated, Items: []models.OrderItem{item("a", 1), item("c", 2)}},
		{ID: "o4", Date: day(1), Total: decimal.NewFromInt(7), Status: models.OrderStatusCancelled, Items: []models.OrderItem{item("ghost", 1)}},
	}
	products := []models.Product{
		{ID: "a", Title: "A", Stock: 10},
		{ID: "b", Title: "B", Stock: 5},
		{ID: "c", Title: "C", Stock: 0},
	}

	d := ComputeDashboard(orders, products, now)

	assert.Equal(t, 3, d.TotalProducts)
	assert.Equal(t, 1, d.PendingOrders)
	assert.Equal(t, "25", d.Revenue.String())
	assert.Equal(t, 2, d.LowStockCount)
	assert.Equal(t, []StockEntry{{"B", 5}, {"C", 0}}, d.LowStock)
	assert.Equal(t, []SalesEntry{{"B", 3}, {"A", 2}, {"C", 2}, {"ghost", 1}}, d.TopProducts)

	require.Len(t, d.LastDays, 7)
	assert.Equal(t, DayCount{"2025-03-04", 0}, d.LastDays[0])
	assert.Equal(t, DayCount{"2025-03-08", 1}, d.LastDays[4])
	assert.Equal(t, DayCount{"2025-03-10", 2}, d.LastDays[6])

	require.Len(t, d.RecentOrders, 4)
	assert.Equal(t, "o4", d.RecentOrders[0].ID)
}

func TestBackOffice_Dashboard(t *testing.T) {
	b, _, _ := newBackOffice(t)
	seedOrders(t, b, "o1")

	d, err := b.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.PendingOrders)
	assert.Equal(t, len(catalog.MustLoadFixtures().Products), d.TotalProducts)
}

func TestAuditHistory(t *testing.T) {
	store := repository.NewLocalStore(repository.NewMemoryKV(), catalog.MustLoadFixtures())
	audit := repository.NewLogAuditRecorder(zap.NewNop())
	b := NewBackOffice(repository.NewKVOrderRepository(store), store, audit, zap.NewNop())
	seedOrders(t, b, "ord_1", "ord_2")
	ctx := context.Background()

	require.NoError(t, b.Orders.SetStatus(ctx, "ord_1", models.OrderStatusCompleted))
	require.NoError(t, b.Orders.SetStatus(ctx, "ord_2", models.OrderStatusCancelled))
	require.NoError(t, b.Orders.SetStatus(ctx, "ord_1", models.OrderStatusCancelled))

	logs, err := b.AuditHistory(ctx, "ord_1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "set_order_status", logs[0].Action)
	assert.Equal(t, "cancelled", logs[0].Data["status"])
	assert.Equal(t, "completed", logs[1].Data["status"])

	logs, err = b.AuditHistory(ctx, "ord_1", 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestAuditHistory_RecorderWithoutHistory(t *testing.T) {
	b, _, _ := newBackOffice(t)

	_, err := b.AuditHistory(context.Background(), "ord_1", 10)
	assert.ErrorIs(t, err, ErrAuditUnavailable)
}
