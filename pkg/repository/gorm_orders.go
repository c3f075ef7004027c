package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormOrderRepository keeps the order history in MySQL, items stored as a
// JSON column.
type GormOrderRepository struct {
	db *gorm.DB
}

func OpenMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	return db, nil
}

// NewGormOrderRepository migrates the orders table.
func NewGormOrderRepository(db *gorm.DB) (*GormOrderRepository, error) {
	if err := db.AutoMigrate(&models.OrderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormOrderRepository{db: db}, nil
}

func (r *GormOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var records []models.OrderRecord
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		o, err := recordToOrder(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id string) (models.Order, error) {
	var rec models.OrderRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return models.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return recordToOrder(rec)
}

func (r *GormOrderRepository) AppendOrder(ctx context.Context, order models.Order) error {
	rec, err := orderToRecord(order)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GormOrderRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.OrderRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Zero rows can also mean nothing changed.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

func orderToRecord(o models.Order) (models.OrderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return models.OrderRecord{}, fmt.Errorf("failed to serialize items: %w", err)
	}
	return models.OrderRecord{
		ID:          o.ID,
		Items:       string(items),
		TotalAmount: o.Total,
		Status:      string(o.EffectiveStatus()),
		CreatedAt:   o.Date,
		UpdatedAt:   o.Date,
	}, nil
}

func recordToOrder(rec models.OrderRecord) (models.Order, error) {
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(rec.Items), &items); err != nil {
		return models.Order{}, fmt.Errorf("failed to parse items for order %s: %w", rec.ID, err)
	}
	return models.Order{
		ID:     rec.ID,
		Items:  items,
		Total:  rec.TotalAmount,
		Date:   rec.CreatedAt,
		Status: models.OrderStatus(rec.Status),
	}, nil
}
