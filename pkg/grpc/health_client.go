package grpc

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthClient probes a storefront health endpoint, found through etcd
// when discovery is available.
type HealthClient struct {
	config    *config.Config
	discovery *discovery.ServiceDiscovery
	logger    *zap.Logger

	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewHealthClient(cfg *config.Config, disc *discovery.ServiceDiscovery, logger *zap.Logger) *HealthClient {
	return &HealthClient{
		config:    cfg,
		discovery: disc,
		logger:    logger,
	}
}

// Target resolves the address to probe.
func (c *HealthClient) Target(ctx context.Context) string {
	host := c.config.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	target := net.JoinHostPort(host, strconv.Itoa(c.config.Server.Port))

	if c.discovery != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		instances, err := c.discovery.Discover(ctx, c.config.Server.Name)
		if err == nil && len(instances) > 0 {
			target = instances[0].Addr()
			c.logger.Info("Discovered health service", zap.String("address", target))
		} else {
			c.logger.Info("Using configured address for health service", zap.String("address", target))
		}
	}
	return target
}

func (c *HealthClient) Connect(ctx context.Context, opts ...grpc.DialOption) error {
	target := c.Target(ctx)
	c.logger.Info("Connecting to health service", zap.String("target", target))

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient("passthrough:///"+target, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", target, err)
	}

	c.conn = conn
	c.client = healthpb.NewHealthClient(conn)
	return nil
}

// Check returns the serving status of service ("" for the whole server).
func (c *HealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	if c.client == nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health client not connected")
	}
	resp, err := c.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func (c *HealthClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
