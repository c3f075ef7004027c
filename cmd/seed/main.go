package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/example/tweenshop/pkg/bootstrap"
	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration")
	force := flag.Bool("force", false, "overwrite existing catalog data with the fixtures")
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// OpenStorage seeds absent keys on its own; -force rewrites them all.
	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close(ctx)

	if *force {
		if err := storage.Store.Seed(ctx, true); err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	products, err := storage.Store.Products(ctx)
	if err != nil {
		logger.Fatal("Failed to read products", zap.Error(err))
	}
	categories, err := storage.Store.Categories(ctx)
	if err != nil {
		logger.Fatal("Failed to read categories", zap.Error(err))
	}

	logger.Info("Catalog seeded",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("force", *force),
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)))
}
