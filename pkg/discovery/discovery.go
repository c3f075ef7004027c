package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/tweenshop/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const leaseTTL = 30

type ServiceDiscovery struct {
	client *clientv3.Client
	config *config.EtcdConfig

	mu     sync.Mutex
	leases map[string]context.CancelFunc
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
}

func (i *ServiceInstance) Addr() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

func NewServiceDiscovery(cfg *config.EtcdConfig) (*ServiceDiscovery, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &ServiceDiscovery{
		client: cli,
		config: cfg,
		leases: make(map[string]context.CancelFunc),
	}, nil
}

// InstanceKey is <prefix><name>/<host:port>.
func InstanceKey(prefix string, instance *ServiceInstance) string {
	return ServicePrefix(prefix, instance.Name) + instance.Addr()
}

func ServicePrefix(prefix, name string) string {
	return prefix + name + "/"
}

// ParseInstance turns a registered "host:port" value back into an
// instance.
func ParseInstance(name, value string) (*ServiceInstance, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("invalid instance address %q: %w", value, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid instance port %q: %w", value, err)
	}
	return &ServiceInstance{Name: name, Host: host, Port: port}, nil
}

// Register puts the instance under a lease kept alive until Deregister
// or Close. The keep-alive outlives ctx.
func (sd *ServiceDiscovery) Register(ctx context.Context, instance *ServiceInstance) error {
	key := InstanceKey(sd.config.Prefix, instance)

	lease, err := sd.client.Grant(ctx, leaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	_, err = sd.client.Put(ctx, key, instance.Addr(), clientv3.WithLease(lease.ID))
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	kaCtx, cancel := context.WithCancel(context.Background())
	ch, kaerr := sd.client.KeepAlive(kaCtx, lease.ID)
	if kaerr != nil {
		cancel()
		return fmt.Errorf("failed to keep alive: %w", kaerr)
	}

	sd.mu.Lock()
	if prev, ok := sd.leases[key]; ok {
		prev()
	}
	sd.leases[key] = cancel
	sd.mu.Unlock()

	go func() {
		for range ch {
		}
	}()

	return nil
}

func (sd *ServiceDiscovery) Discover(ctx context.Context, serviceName string) ([]*ServiceInstance, error) {
	resp, err := sd.client.Get(ctx, ServicePrefix(sd.config.Prefix, serviceName), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover service: %w", err)
	}

	var instances []*ServiceInstance
	for _, kv := range resp.Kvs {
		inst, err := ParseInstance(serviceName, string(kv.Value))
		if err != nil {
			continue
		}
		instances = append(instances, inst)
	}

	return instances, nil
}

func (sd *ServiceDiscovery) Deregister(ctx context.Context, instance *ServiceInstance) error {
	key := InstanceKey(sd.config.Prefix, instance)

	sd.mu.Lock()
	if cancel, ok := sd.leases[key]; ok {
		cancel()
		delete(sd.leases, key)
	}
	sd.mu.Unlock()

	_, err := sd.client.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

func (sd *ServiceDiscovery) Close() error {
	sd.mu.Lock()
	for key, cancel := range sd.leases {
		cancel()
		delete(sd.leases, key)
	}
	sd.mu.Unlock()
	return sd.client.Close()
}
