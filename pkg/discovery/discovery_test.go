package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceKey(t *testing.T) {
	inst := &ServiceInstance{Name: "tweenshop-grpc", Host: "10.0.0.2", Port: 50051}

	assert.Equal(t, "10.0.0.2:50051", inst.Addr())
	assert.Equal(t, "/services/tweenshop-grpc/10.0.0.2:50051", InstanceKey("/services/", inst))
}

func TestParseInstance(t *testing.T) {
	inst, err := ParseInstance("svc", "127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, &ServiceInstance{Name: "svc", Host: "127.0.0.1", Port: 8080}, inst)

	inst, err = ParseInstance("svc", "[::1]:9000")
	require.NoError(t, err)
	assert.Equal(t, "::1", inst.Host)

	_, err = ParseInstance("svc", "no-port")
	assert.Error(t, err)
	_, err = ParseInstance("svc", "host:http")
	assert.Error(t, err)
}

func TestRegisterDiscover(t *testing.T) {
	cfg := &config.EtcdConfig{Endpoints: []string{"localhost:2379"}, DialTimeout: 1, Prefix: "/tweenshop-test/"}
	sd, err := NewServiceDiscovery(cfg)
	if err != nil {
		t.Skipf("etcd not available: %v", err)
	}
	defer sd.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	inst := &ServiceInstance{Name: "probe", Host: "127.0.0.1", Port: 50051}
	if err := sd.Register(ctx, inst); err != nil {
		t.Skipf("etcd not available: %v", err)
	}

	found, err := sd.Discover(ctx, "probe")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 50051, found[0].Port)

	require.NoError(t, sd.Deregister(ctx, inst))
	found, err = sd.Discover(ctx, "probe")
	require.NoError(t, err)
	assert.Empty(t, found)
}
