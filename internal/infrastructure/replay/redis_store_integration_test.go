//go:build integration

package replay

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisStore_MarkIfAbsent(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	store := NewRedisStore(client, "test:txn:")

	created, err := store.MarkIfAbsent(ctx, "TXN1", time.Hour)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.MarkIfAbsent(ctx, "TXN1", time.Hour)
	require.NoError(t, err)
	assert.False(t, created)

	ttl, err := client.TTL(ctx, "test:txn:TXN1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(setupRedis(t), "test:txn:")

	created, err := store.MarkIfAbsent(ctx, "TXN1", time.Second)
	require.NoError(t, err)
	require.True(t, created)

	require.Eventually(t, func() bool {
		created, err := store.MarkIfAbsent(ctx, "TXN1", time.Second)
		return err == nil && created
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	_, err := NewRedisStore(client, "test:txn:").MarkIfAbsent(context.Background(), "TXN1", time.Hour)
	assert.Error(t, err)
}
