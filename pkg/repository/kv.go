package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted layout.
const (
	KeyOrders     = "orders"
	KeyProducts   = "products"
	KeyCategories = "categories"
	KeySettings   = "settings"
)

var ErrNotFound = errors.New("not found")

// KV is the key/value store behind LocalStore. Get returns ErrNotFound for
// absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

func getJSON(ctx context.Context, kv KV, key string, dest interface{}) error {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv KV, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}
