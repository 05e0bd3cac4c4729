package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/event"
	"github.com/nikolayk812/storefront/internal/migrations"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/review"
	"github.com/nikolayk812/storefront/internal/validation"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds everything the commands share for one invocation.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	catalog  *catalog.Catalog
	cart     *cart.Store
	checkout *checkout.Service
	reviews  *review.Ledger

	closers []func() error
}

func (a *app) open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a.cfg = cfg
	a.logger = logger

	var err error
	if cfg.Store.CatalogPath != "" {
		a.catalog, err = catalog.LoadFile(cfg.Store.CatalogPath)
	} else {
		a.catalog, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	kv, err := a.openKV(ctx, cfg.Storage)
	if err != nil {
		return errors.Join(err, a.close())
	}

	v := validation.New()

	a.cart = cart.NewStore(
		repository.NewCart(kv, cfg.Store.Currency, logger),
		event.NewBus[domain.CartChanged](),
		logger,
	)

	a.checkout = checkout.NewService(
		a.cart,
		checkout.NewHistory(repository.NewOrder(kv, logger)),
		v,
		logger,
		checkout.WithDelay(cfg.Store.CheckoutDelay),
	)

	a.reviews = review.NewLedger(repository.NewReview(kv, logger), v, logger)

	logger.Debug().Str("storage", cfg.Storage.Driver).Msg("storefront ready")

	return nil
}

func (a *app) openKV(ctx context.Context, cfg config.StorageConfig) (port.KVStore, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return repository.NewMemoryKV(), nil

	case config.StorageSQLite:
		db, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("repository.OpenSQLite: %w", err)
		}
		kv, err := repository.NewGormKV(db)
		if err != nil {
			return nil, fmt.Errorf("repository.NewGormKV: %w", err)
		}
		a.closers = append(a.closers, kv.Close)
		return repository.NewPrefixedKV(kv, cfg.KeyPrefix), nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		if err := migrations.Apply(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrations.Apply: %w", err)
		}
		return repository.NewPrefixedKV(repository.NewPostgresKV(pool, cfg.KeyPrefix+"_changes"), cfg.KeyPrefix), nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisKV(client, cfg.KeyPrefix), nil

	default:
		return nil, fmt.Errorf("%w: storage driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
