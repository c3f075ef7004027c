// Package bootstrap opens the backends selected in the configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/tweenshop/pkg/catalog"
	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/repository"
	"go.uber.org/zap"
)

type Storage struct {
	KV     repository.KV
	Store  *repository.LocalStore
	Orders repository.OrderRepository
	Audit  repository.AuditRecorder

	closers []func(context.Context) error
}

// OpenStorage connects the KV backend, the order repository and the audit
// log. An unreachable MongoDB falls back to logging audit entries.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	fixtures, err := catalog.LoadFixtures()
	if err != nil {
		return nil, err
	}

	s := &Storage{}

	switch cfg.Storage.Backend {
	case config.BackendRedis:
		redisRepo := repository.NewRedisRepository(&cfg.Redis)
		if err := redisRepo.Ping(ctx); err != nil {
			redisRepo.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr))
		s.KV = redisRepo
	default:
		s.KV = repository.NewMemoryKV()
	}
	s.closers = append(s.closers, func(context.Context) error { return s.KV.Close() })
	s.Store = repository.NewLocalStore(s.KV, fixtures)

	switch cfg.Storage.Orders {
	case config.OrdersMySQL:
		db, err := repository.OpenMySQL(&cfg.MySQL)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		repo, err := repository.NewGormOrderRepository(db)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		logger.Info("MySQL order repository ready", zap.String("database", cfg.MySQL.Database))
		s.Orders = repo
	default:
		s.Orders = repository.NewKVOrderRepository(s.Store)
	}

	s.Audit = repository.NewLogAuditRecorder(logger)
	if cfg.MongoDB.Enabled {
		if store, err := connectAudit(ctx, cfg); err != nil {
			logger.Warn("MongoDB unavailable, audit entries go to the log", zap.Error(err))
		} else {
			s.Audit = store
			s.closers = append(s.closers, store.Close)
		}
	}

	if err := s.Store.Seed(ctx, false); err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("failed to seed storage: %w", err)
	}

	return s, nil
}

// auditStore is the audit backend OpenStorage manages.
type auditStore interface {
	repository.AuditRecorder
	repository.AuditReader
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var openAuditStore = func(cfg *config.Config) (auditStore, error) {
	repo, err := repository.NewMongoRepository(&cfg.MongoDB, cfg.Gateway.Name)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// connectAudit opens the audit backend and checks it answers. A backend
// that connected but does not answer is closed before returning.
func connectAudit(ctx context.Context, cfg *config.Config) (auditStore, error) {
	store, err := openAuditStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		if cerr := store.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}
	return store, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.KV.Ping(ctx)
}

// Close releases backends in reverse opening order.
func (s *Storage) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
