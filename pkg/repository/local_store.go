package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/models"
)

// LocalStore is the typed view of the persisted layout. Products,
// categories and settings fall back to the bundled fixtures until first
// written. Read-modify-write cycles go through the Update helpers, which
// serialize writers within the process.
type LocalStore struct {
	kv       KV
	fixtures *catalog.Fixtures

	mu sync.Mutex
}

func NewLocalStore(kv KV, fixtures *catalog.Fixtures) *LocalStore {
	return &LocalStore{kv: kv, fixtures: fixtures}
}

func (s *LocalStore) KV() KV {
	return s.kv
}

func (s *LocalStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Seed writes the fixtures under every absent catalog key, or under all
// of them when force is set. Orders are cleared only when forced.
func (s *LocalStore) Seed(ctx context.Context, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeds := []struct {
		key   string
		value interface{}
	}{
		{KeyProducts, s.fixtures.Products},
		{KeyCategories, s.fixtures.Categories},
		{KeySettings, s.fixtures.Settings},
	}
	for _, seed := range seeds {
		if !force {
			if _, err := s.kv.Get(ctx, seed.key); err == nil {
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("failed to read %s: %w", seed.key, err)
			}
		}
		if err := setJSON(ctx, s.kv, seed.key, seed.value); err != nil {
			return err
		}
	}
	if force {
		if err := setJSON(ctx, s.kv, KeyOrders, []models.Order{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *LocalStore) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := getJSON(ctx, s.kv, KeyOrders, &orders); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	return orders, nil
}

func (s *LocalStore) SaveOrders(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return setJSON(ctx, s.kv, KeyOrders, orders)
}

// UpdateOrders applies fn to the stored orders and writes the result back.
func (s *LocalStore) UpdateOrders(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.Orders(ctx)
	if err != nil {
		return err
	}
	orders, err = fn(orders)
	if err != nil {
		return err
	}
	return s.SaveOrders(ctx, orders)
}

func (s *LocalStore) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := getJSON(ctx, s.kv, KeyProducts, &products); err != nil {
		if errors.Is(err, ErrNotFound) {
			return append([]models.Product(nil), s.fixtures.Products...), nil
		}
		return nil, err
	}
	return products, nil
}

// SaveProducts replaces the whole product array.
func (s *LocalStore) SaveProducts(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return setJSON(ctx, s.kv, KeyProducts, products)
}

func (s *LocalStore) UpdateProducts(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.Products(ctx)
	if err != nil {
		return err
	}
	products, err = fn(products)
	if err != nil {
		return err
	}
	return s.SaveProducts(ctx, products)
}

func (s *LocalStore) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := getJSON(ctx, s.kv, KeyCategories, &categories); err != nil {
		if errors.Is(err, ErrNotFound) {
			return append([]models.Category(nil), s.fixtures.Categories...), nil
		}
		return nil, err
	}
	return categories, nil
}

func (s *LocalStore) SaveCategories(ctx context.Context, categories []models.Category) error {
	if categories == nil {
		categories = []models.Category{}
	}
	return setJSON(ctx, s.kv, KeyCategories, categories)
}

func (s *LocalStore) UpdateCategories(ctx context.Context, fn func([]models.Category) ([]models.Category, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, err := s.Categories(ctx)
	if err != nil {
		return err
	}
	categories, err = fn(categories)
	if err != nil {
		return err
	}
	return s.SaveCategories(ctx, categories)
}

// Settings decodes the stored object over the fixture defaults, so fields
// missing from an older record keep their default value.
func (s *LocalStore) Settings(ctx context.Context) (models.Settings, error) {
	settings := s.fixtures.Settings
	data, err := s.kv.Get(ctx, KeySettings)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return settings, nil
		}
		return models.Settings{}, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to decode %s: %w", KeySettings, err)
	}
	return settings, nil
}

func (s *LocalStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return setJSON(ctx, s.kv, KeySettings, settings)
}
