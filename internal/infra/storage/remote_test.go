package storage_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prefab-leads/internal/infra/storage"
)

// These run against real servers and are skipped unless one is configured.

func TestRedisSlot(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb, err := storage.ConnectRedis(addr, "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	slot := storage.NewRedisSlot(rdb, "test:"+uuid.NewString()+":")
	require.NoError(t, slot.Ping(context.Background()))
	exerciseSlot(t, slot)
}

func TestMongoSlot(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	client, err := storage.ConnectMongo(uri)
	require.NoError(t, err)

	db := client.Database("prefab_test_" + uuid.NewString()[:8])
	defer func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	}()

	exerciseSlot(t, storage.NewMongoSlot(db))
}
