package main

import (
	"context"
	"fmt"
	"io"

	"charterline/internal/platform/config"
	"charterline/internal/platform/postgres"
	"charterline/internal/platform/redis"
	"charterline/internal/platform/sqlite"
	"charterline/internal/verification/service"
	"charterline/internal/verification/store/kv"
	pgstore "charterline/internal/verification/store/postgres"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildStores opens the configured lifecycle backend. The returned closer
// releases its connection.
func buildStores(ctx context.Context, cfg config.Config) (service.Stores, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return kvStores(kv.NewMemoryBackend()), nopCloser{}, nil

	case config.DriverSQLite:
		db, err := sqlite.OpenAndMigrate(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return service.Stores{}, nil, err
		}
		return kvStores(kv.NewSQLiteBackend(db)), db, nil

	case config.DriverRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return service.Stores{}, nil, err
		}
		if client == nil {
			return service.Stores{}, nil, fmt.Errorf("redis driver selected without redis.url")
		}
		backend := kv.NewRedisBackend(client.Client, kv.WithKeyPrefix(cfg.Redis.KeyPrefix))
		return kvStores(backend), client, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return service.Stores{}, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return service.Stores{}, nil, err
		}
		store := pgstore.New(db)
		return service.Stores{
			Statuses:    store.Statuses(),
			Referrals:   store.Referrals(),
			Resolutions: store.Resolutions(),
			Submissions: store.Submissions(),
		}, db, nil
	}
	return service.Stores{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func kvStores(backend kv.Backend) service.Stores {
	return service.Stores{
		Statuses:    kv.NewStatusRepository(backend),
		Referrals:   kv.NewReferralRepository(backend),
		Resolutions: kv.NewResolutionRepository(backend),
		Submissions: kv.NewSubmissionRepository(backend),
	}
}
