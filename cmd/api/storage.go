package main

import (
	"context"
	"fmt"

	"github.com/xavierca1/prefab-leads/internal/config"
	"github.com/xavierca1/prefab-leads/internal/infra/database"
	"github.com/xavierca1/prefab-leads/internal/infra/http/handlers"
	"github.com/xavierca1/prefab-leads/internal/infra/storage"
	"github.com/xavierca1/prefab-leads/internal/usecase"
)

// openSlot builds the persistence medium picked by STORAGE_DRIVER. The
// returned cleanup closes whatever connection was opened.
func openSlot(ctx context.Context, cfg *config.Config) (usecase.SlotStore, handlers.Pinger, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		return storage.NewMemorySlot(), nil, noop, nil

	case config.DriverFile:
		slot, err := storage.NewFileSlot(cfg.StorageDir)
		if err != nil {
			return nil, nil, noop, err
		}
		return slot, nil, noop, nil

	case config.DriverPostgres:
		db, err := database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("connecting to Postgres: %w", err)
		}
		repo := database.NewSlotRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		return repo, handlers.PingFunc(db.PingContext), func() { db.Close() }, nil

	case config.DriverRedis:
		rdb, err := storage.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, noop, err
		}
		slot := storage.NewRedisSlot(rdb, "prefab:")
		return slot, slot, func() { rdb.Close() }, nil

	case config.DriverMongo:
		client, err := storage.ConnectMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, noop, err
		}
		ping := handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
		return storage.NewMongoSlot(client.Database(cfg.MongoDB)), ping, func() { client.Disconnect(context.Background()) }, nil
	}

	return nil, nil, noop, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
