package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/discovery"
	"github.com/example/tweenshop/pkg/grpc"
	"github.com/example/tweenshop/pkg/logging"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration")
	service := flag.String("service", "", "service name to check; empty checks the whole server")
	timeout := flag.Duration("timeout", 5*time.Second, "overall check timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var sd *discovery.ServiceDiscovery
	if cfg.Etcd.Enabled {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			logger.Warn("Failed to connect to etcd, using configured address", zap.Error(err))
			sd = nil
		} else {
			defer sd.Close()
		}
	}

	client := grpc.NewHealthClient(cfg, sd, logger)
	if err := client.Connect(ctx); err != nil {
		logger.Error("Failed to connect", zap.Error(err))
		os.Exit(1)
	}
	defer client.Close()

	status, err := client.Check(ctx, *service)
	if err != nil {
		logger.Error("Health check failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Health check", zap.String("service", *service), zap.String("status", status.String()))
	if status != healthpb.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
