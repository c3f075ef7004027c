package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStorage_Memory(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	ctx := context.Background()

	s, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.IsType(t, &repository.MemoryKV{}, s.KV)
	assert.IsType(t, &repository.KVOrderRepository{}, s.Orders)
	assert.IsType(t, &repository.LogAuditRecorder{}, s.Audit)
	assert.NoError(t, s.Ping(ctx))

	_, err = s.KV.Get(ctx, repository.KeyProducts)
	assert.NoError(t, err, "catalog seeded")
}

func TestOpenStorage_RedisUnavailable(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.Backend = config.BackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err = OpenStorage(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

type fakeAuditStore struct {
	*repository.LogAuditRecorder
	pingErr error
	closed  int
}

func (f *fakeAuditStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeAuditStore) Close(context.Context) error {
	f.closed++
	return nil
}

func withAuditStore(t *testing.T, store *fakeAuditStore) {
	t.Helper()
	prev := openAuditStore
	openAuditStore = func(*config.Config) (auditStore, error) { return store, nil }
	t.Cleanup(func() { openAuditStore = prev })
}

func TestOpenStorage_MongoPingFailureClosesClient(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.MongoDB.Enabled = true
	store := &fakeAuditStore{
		LogAuditRecorder: repository.NewLogAuditRecorder(zap.NewNop()),
		pingErr:          errors.New("server selection timeout"),
	}
	withAuditStore(t, store)
	ctx := context.Background()

	s, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, store.closed)
	assert.NotSame(t, store, s.Audit)
	assert.IsType(t, &repository.LogAuditRecorder{}, s.Audit)

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, 1, store.closed)
}

func TestOpenStorage_MongoAudit(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.MongoDB.Enabled = true
	store := &fakeAuditStore{LogAuditRecorder: repository.NewLogAuditRecorder(zap.NewNop())}
	withAuditStore(t, store)
	ctx := context.Background()

	s, err := OpenStorage(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, store, s.Audit)
	assert.Equal(t, 0, store.closed)

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, 1, store.closed)
}
