package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/example/tweenshop/pkg/repository"
	"go.uber.org/zap"
)

type OrderManager struct {
	repo   repository.OrderRepository
	audit  repository.AuditRecorder
	logger *zap.Logger
}

func NewOrderManager(repo repository.OrderRepository, audit repository.AuditRecorder, logger *zap.Logger) *OrderManager {
	return &OrderManager{repo: repo, audit: audit, logger: logger.Named("admin.orders")}
}

func (m *OrderManager) All(ctx context.Context) ([]models.Order, error) {
	return m.repo.List(ctx)
}

// List pages the history in storage order.
func (m *OrderManager) List(ctx context.Context, page int) (paging.Page[models.Order], error) {
	orders, err := m.repo.List(ctx)
	if err != nil {
		return paging.Page[models.Order]{}, err
	}
	return paging.New(orders, page, paging.AdminOrdersPerPage), nil
}

// SetStatus overwrites the status of order id. Setting the current status
// again succeeds.
func (m *OrderManager) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := m.repo.SetStatus(ctx, id, status); err != nil {
		return m.mapErr(err)
	}
	m.logger.Info("Order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	record(ctx, m.audit, m.logger, "set_order_status", id, map[string]interface{}{"status": string(status)})
	return nil
}

// RequestDelete marks id for deletion after checking it exists.
func (m *OrderManager) RequestDelete(ctx context.Context, c *Confirmation, id string) error {
	if _, err := m.repo.Get(ctx, id); err != nil {
		return m.mapErr(err)
	}
	c.Request(id)
	return nil
}

// ConfirmDelete deletes the pending order. The confirmation is cleared
// even when deletion fails.
func (m *OrderManager) ConfirmDelete(ctx context.Context, c *Confirmation) (string, error) {
	id, ok := c.Confirm()
	if !ok {
		return "", ErrNoPendingConfirmation
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		return id, m.mapErr(err)
	}
	m.logger.Info("Order deleted", zap.String("order_id", id))
	record(ctx, m.audit, m.logger, "delete_order", id, nil)
	return id, nil
}

func (m *OrderManager) mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
