package repository

import (
	"context"
	"testing"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedisRepository(t *testing.T) {
	cfg := &config.RedisConfig{Addr: "localhost:6379", PoolSize: 2, KeyPrefix: "tweenshop-test:"}
	repo := NewRedisRepository(cfg)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := repo.Ping(ctx); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer repo.Del(context.Background(), "k")

	_, err := repo.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, setJSON(ctx, repo, "k", map[string]int{"a": 1}))
	var got map[string]int
	require.NoError(t, getJSON(ctx, repo, "k", &got))
	assert.Equal(t, 1, got["a"])
}

func TestGormOrderRepository(t *testing.T) {
	cfg := &config.MySQLConfig{
		Host: "localhost", Port: 3306, Username: "root", Password: "root",
		Database: "tweenshop_test", MaxIdleConns: 1, MaxOpenConns: 2,
	}
	db, err := OpenMySQL(cfg)
	if err != nil {
		t.Skipf("mysql not available: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skip("mysql not available")
	}
	defer sqlDB.Close()

	repo, err := NewGormOrderRepository(db)
	require.NoError(t, err)

	ctx := context.Background()
	id := models.NewID("ord", time.Now())
	order := models.Order{
		ID:    id,
		Items: []models.OrderItem{{ProductID: "p", Title: "Robe", Price: decimal.NewFromInt(5), Quantity: 3}},
		Total: decimal.NewFromInt(15),
		Date:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.AppendOrder(ctx, order))
	defer repo.Delete(ctx, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, "15.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 1)

	require.NoError(t, repo.SetStatus(ctx, id, models.OrderStatusCancelled))
	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	assert.ErrorIs(t, repo.Delete(ctx, "ord_missing"), ErrNotFound)
}

func TestMongoRepository(t *testing.T) {
	cfg := &config.MongoDBConfig{URI: "mongodb://localhost:27017", Database: "tweenshop_test", Collection: "audit_logs"}
	repo, err := NewMongoRepository(cfg, "test")
	if err != nil {
		t.Skipf("mongo not available: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := repo.Ping(ctx); err != nil {
		t.Skipf("mongo not available: %v", err)
	}
	defer repo.Close(context.Background())

	entity := models.NewID("ord", time.Now())
	require.NoError(t, repo.Record(ctx, "set_status", entity, map[string]interface{}{"status": "completed"}))

	logs, err := repo.History(ctx, entity, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "set_status", logs[0].Action)
	assert.Equal(t, "test", logs[0].Service)
}

func TestLogAuditRecorder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := NewLogAuditRecorder(zap.New(core))

	require.NoError(t, rec.Record(context.Background(), "delete_order", "ord_1", map[string]interface{}{"by": "admin"}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "delete_order", entries[0].Message)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "ord_1", entries[0].ContextMap()["entity_id"])
}

func TestLogAuditRecorder_History(t *testing.T) {
	rec := NewLogAuditRecorder(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, "set_order_status", "ord_1", map[string]interface{}{"status": "completed"}))
	require.NoError(t, rec.Record(ctx, "update_product", "prod_1", nil))
	require.NoError(t, rec.Record(ctx, "delete_order", "ord_1", nil))

	logs, err := rec.History(ctx, "ord_1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "delete_order", logs[0].Action)
	assert.Equal(t, "set_order_status", logs[1].Action)

	logs, err = rec.History(ctx, "ord_1", 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "delete_order", logs[0].Action)

	logs, err = rec.History(ctx, "ord_missing", 10)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestLogAuditRecorder_HistoryIsBounded(t *testing.T) {
	rec := NewLogAuditRecorder(zap.NewNop())
	ctx := context.Background()

	for i := 0; i < LogAuditRecorderCapacity+10; i++ {
		require.NoError(t, rec.Record(ctx, "update_product", "prod_1", map[string]interface{}{"n": i}))
	}

	logs, err := rec.History(ctx, "prod_1", 0)
	require.NoError(t, err)
	require.Len(t, logs, LogAuditRecorderCapacity)
	assert.Equal(t, LogAuditRecorderCapacity+9, logs[0].Data["n"])
	assert.Equal(t, 10, logs[len(logs)-1].Data["n"])
}
