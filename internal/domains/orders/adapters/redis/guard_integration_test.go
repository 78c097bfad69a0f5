//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) goredis.UniversalClient {
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

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, rdb.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = rdb.Close()
		_ = container.Terminate(ctx)
	})
	return rdb
}

func TestCheckoutGuard_AcrossReplicas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	rdb := setupRedisContainer(t)
	first := NewCheckoutGuard(rdb, time.Minute)
	second := NewCheckoutGuard(rdb, time.Minute)

	ok, err := first.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, second.Release(ctx, "s1"))
	ok, err = second.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok, "a non-owner release must not free the session")

	require.NoError(t, first.Release(ctx, "s1"))
	ok, err = second.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCheckoutGuard_Expires(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	rdb := setupRedisContainer(t)
	guard := NewCheckoutGuard(rdb, time.Second)

	ok, err := guard.Acquire(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		ok, err := NewCheckoutGuard(rdb, time.Second).Acquire(ctx, "s1")
		return err == nil && ok
	}, 5*time.Second, 200*time.Millisecond)
}
