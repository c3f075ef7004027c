// @title           Tweenshop API
// @version         1.0
// @description     Storefront, checkout and back office of the Tweenshop children's clothing shop.
// @BasePath        /
// @securityDefinitions.apikey SessionID
// @in              header
// @name            X-Session-ID
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/tweenshop/gateway"
	"github.com/example/tweenshop/pkg/admin"
	"github.com/example/tweenshop/pkg/bootstrap"
	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/discovery"
	"github.com/example/tweenshop/pkg/grpc"
	"github.com/example/tweenshop/pkg/logging"
	"github.com/example/tweenshop/pkg/session"
	"github.com/example/tweenshop/pkg/shopper"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting Tweenshop gateway",
		zap.String("host", cfg.Gateway.Host),
		zap.Int("port", cfg.Gateway.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("orders", cfg.Storage.Orders))

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}

	provider := catalog.NewProvider(storage.Store, catalog.LatencyFromConfig(cfg.Catalog))
	backOffice := admin.NewBackOffice(storage.Orders, storage.Store, storage.Audit, logger)

	system := actor.NewActorSystem()
	shoppers := shopper.NewRegistry(system, shopper.Deps{
		Orders:      storage.Orders,
		Catalog:     provider,
		BackOffice:  backOffice,
		Auth:        session.NewAuthenticator(cfg.Auth),
		Audit:       storage.Audit,
		Logger:      logger,
		IOTimeout:   cfg.Actor.IOTimeout,
		IdleTimeout: cfg.Actor.SessionIdleTimeout,
	}, cfg.Actor.RequestTimeout)

	gw := gateway.NewGateway(cfg, logger, gateway.Services{
		Catalog:    provider,
		Shoppers:   shoppers,
		BackOffice: backOffice,
		Storage:    storage,
	})
	gw.SetupRoutes()

	health := grpc.NewHealthServer(cfg, storage, logger)

	errCh := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			errCh <- fmt.Errorf("gateway: %w", err)
		}
	}()
	go func() {
		if err := health.Start(); err != nil {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()

	// Register the health endpoint for service discovery
	var sd *discovery.ServiceDiscovery
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if cfg.Etcd.Enabled {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			logger.Info("Service registered in etcd",
				zap.String("name", instance.Name),
				zap.String("address", instance.Addr()))
		}
	}

	logger.Info("Gateway started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}
	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway shutdown failed", zap.Error(err))
	}
	health.Stop()
	shoppers.Close()
	system.Shutdown()
	if err := storage.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close storage", zap.Error(err))
	}

	logger.Info("Gateway stopped")
}
