package redisx_test

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

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/redisx"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test: needs docker")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, redisx.Ping(ctx, rdb))
	return rdb
}

func TestRedis(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	t.Run("order cache", func(t *testing.T) {
		c := redisx.NewOrderCache(rdb)
		_, ok, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		o := domain.Order{ID: 1, Name: "Desk lamp", Quantity: 2, PaymentMethod: domain.PaymentDebit,
			OrderDate: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
		require.NoError(t, c.Set(ctx, o))

		got, ok, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, o, got)

		require.NoError(t, c.Invalidate(ctx, 1))
		_, ok, err = c.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		filled, err := c.Fill(ctx, o)
		require.NoError(t, err)
		assert.False(t, filled, "a tombstone blocks a stale refill")
	})

	t.Run("order cache fill never overwrites a write", func(t *testing.T) {
		c := redisx.NewOrderCache(rdb)
		stale := domain.Order{ID: 2, Quantity: 5, OrderDate: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
		fresh := stale
		fresh.Quantity = 8

		require.NoError(t, c.Set(ctx, fresh))
		filled, err := c.Fill(ctx, stale)
		require.NoError(t, err)
		assert.False(t, filled)

		got, ok, err := c.Get(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 8, got.Quantity)

		filled, err = c.Fill(ctx, domain.Order{ID: 3, Quantity: 1})
		require.NoError(t, err)
		assert.True(t, filled)
	})

	t.Run("idempotency keeps first mapping", func(t *testing.T) {
		idem := redisx.NewIdempotency(rdb)
		require.NoError(t, idem.Remember(ctx, "abc", 7))
		require.NoError(t, idem.Remember(ctx, "abc", 8))

		id, ok, err := idem.Lookup(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)

		_, ok, err = idem.Lookup(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("dedup", func(t *testing.T) {
		d := redisx.NewDedup(rdb, "notifier")
		first, err := d.Claim(ctx, "evt-1")
		require.NoError(t, err)
		second, err := d.Claim(ctx, "evt-1")
		require.NoError(t, err)
		assert.True(t, first)
		assert.False(t, second)

		require.NoError(t, d.Release(ctx, "evt-1"))
		again, err := d.Claim(ctx, "evt-1")
		require.NoError(t, err)
		assert.True(t, again)

		exists, err := redisx.Exists(ctx, rdb, "dedup:notifier:evt-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
