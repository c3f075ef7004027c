package repository

import (
	"context"
	"fmt"

	"github.com/example/tweenshop/pkg/models"
)

// OrderRepository is the order history. SetStatus and Delete return
// ErrNotFound for unknown ids.
type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	AppendOrder(ctx context.Context, order models.Order) error
	SetStatus(ctx context.Context, id string, status models.OrderStatus) error
	Delete(ctx context.Context, id string) error
}

// KVOrderRepository keeps the history under the "orders" key of a
// LocalStore.
type KVOrderRepository struct {
	store *LocalStore
}

func NewKVOrderRepository(store *LocalStore) *KVOrderRepository {
	return &KVOrderRepository{store: store}
}

func (r *KVOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.store.Orders(ctx)
}

func (r *KVOrderRepository) Get(ctx context.Context, id string) (models.Order, error) {
	orders, err := r.store.Orders(ctx)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

func (r *KVOrderRepository) AppendOrder(ctx context.Context, order models.Order) error {
	return r.store.UpdateOrders(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order.Clone()), nil
	})
}

func (r *KVOrderRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.store.UpdateOrders(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				return orders, nil
			}
		}
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	})
}

func (r *KVOrderRepository) Delete(ctx context.Context, id string) error {
	return r.store.UpdateOrders(ctx, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				return append(orders[:i], orders[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	})
}
