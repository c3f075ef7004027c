// Package admin implements the back office: order status and deletion,
// product and category management, site settings and the dashboard.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/repository"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrImageRequired         = errors.New("at least one image is required")
	ErrTitleRequired         = errors.New("title is required")
	ErrCategoryNameRequired  = errors.New("category name is required")
	ErrNoPendingConfirmation = errors.New("no deletion pending confirmation")
	ErrAuditUnavailable      = errors.New("audit history is not available")
)

// DefaultAuditLimit caps an audit history request without an explicit limit.
const DefaultAuditLimit = 50

// CatalogStore is the writable side of the catalog.
type CatalogStore interface {
	Products(ctx context.Context) ([]models.Product, error)
	UpdateProducts(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error
	Categories(ctx context.Context) ([]models.Category, error)
	UpdateCategories(ctx context.Context, fn func([]models.Category) ([]models.Category, error)) error
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

func record(ctx context.Context, audit repository.AuditRecorder, logger *zap.Logger, action, entityID string, data map[string]interface{}) {
	if audit == nil {
		return
	}
	if err := audit.Record(ctx, action, entityID, data); err != nil {
		logger.Warn("Failed to write audit log",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

// BackOffice groups the managers behind the admin API.
type BackOffice struct {
	Orders   *OrderManager
	Products *ProductManager
	Settings *SettingsManager

	audit repository.AuditRecorder
	now   func() time.Time
}

func NewBackOffice(orders repository.OrderRepository, store CatalogStore, audit repository.AuditRecorder, logger *zap.Logger) *BackOffice {
	return &BackOffice{
		Orders:   NewOrderManager(orders, audit, logger),
		Products: NewProductManager(store, audit, logger),
		Settings: NewSettingsManager(store, audit, logger),
		audit:    audit,
		now:      time.Now,
	}
}

// AuditHistory lists the recorded actions on an order or product, newest
// first. limit ≤ 0 uses DefaultAuditLimit.
func (b *BackOffice) AuditHistory(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error) {
	reader, ok := b.audit.(repository.AuditReader)
	if !ok {
		return nil, ErrAuditUnavailable
	}
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	logs, err := reader.History(ctx, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit history: %w", err)
	}
	return logs, nil
}

func (b *BackOffice) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := b.Orders.All(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	products, err := b.Products.store.Products(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return ComputeDashboard(orders, products, b.now()), nil
}
