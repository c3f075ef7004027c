package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultPingInterval = 10 * time.Second

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer exposes grpc.health.v1 for the storefront. The status of
// both the empty service name and the configured server name follows
// the storage ping.
type HealthServer struct {
	config   *config.Config
	logger   *zap.Logger
	storage  Pinger
	interval time.Duration

	srv    *grpc.Server
	health *health.Server

	stopOnce sync.Once
	stop     chan struct{}
}

func NewHealthServer(cfg *config.Config, storage Pinger, logger *zap.Logger) *HealthServer {
	s := &HealthServer{
		config:   cfg,
		logger:   logger.Named("grpc"),
		storage:  storage,
		interval: defaultPingInterval,
		srv:      grpc.NewServer(),
		health:   health.NewServer(),
		stop:     make(chan struct{}),
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// Start listens on the configured address and blocks until Stop.
func (s *HealthServer) Start() error {
	addr := s.config.Server.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	s.CheckNow(context.Background())
	go s.watch()

	s.logger.Info("Health service started", zap.String("address", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// CheckNow pings storage once and publishes the result.
func (s *HealthServer) CheckNow(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.storage != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.interval/2)
		defer cancel()
		if err := s.storage.Ping(pingCtx); err != nil {
			s.logger.Warn("Storage ping failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.config.Server.Name, status)
	return status
}

func (s *HealthServer) watch() {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.CheckNow(context.Background())
		}
	}
}

// Stop marks every service NOT_SERVING and drains open calls.
func (s *HealthServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.srv.GracefulStop()
	})
}
