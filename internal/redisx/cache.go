package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

// orderTombstone marks a deleted order so a racing read cannot refill it.
const orderTombstone = "-"

// OrderCache is a read-through cache for single orders. Writers Set the
// committed order; readers only Fill an absent key, so a read that started
// before a write never overwrites the write's value.
type OrderCache struct {
	rdb *redis.Client
}

func NewOrderCache(rdb *redis.Client) *OrderCache { return &OrderCache{rdb: rdb} }

// Get reports ok=false on a miss.
func (c *OrderCache) Get(ctx context.Context, id int64) (domain.Order, bool, error) {
	var o domain.Order
	b, err := c.rdb.Get(ctx, fmt.Sprintf(KeyOrder, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return o, false, nil
	}
	if err != nil {
		return o, false, fmt.Errorf("order cache get %d: %w", id, err)
	}
	if string(b) == orderTombstone {
		return o, false, nil
	}
	if err := json.Unmarshal(b, &o); err != nil {
		return o, false, fmt.Errorf("order cache decode %d: %w", id, err)
	}
	return o, true, nil
}

// Set stores the committed state of o, replacing whatever is cached.
func (c *OrderCache) Set(ctx context.Context, o domain.Order) error {
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("order cache encode %d: %w", o.ID, err)
	}
	return c.rdb.Set(ctx, fmt.Sprintf(KeyOrder, o.ID), b, TTLOrderCache).Err()
}

// Fill caches o read from the database only if nothing (not even a
// tombstone) is cached for it yet.
func (c *OrderCache) Fill(ctx context.Context, o domain.Order) (bool, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return false, fmt.Errorf("order cache encode %d: %w", o.ID, err)
	}
	return c.rdb.SetNX(ctx, fmt.Sprintf(KeyOrder, o.ID), b, TTLOrderCache).Result()
}

// Invalidate replaces the entry with a tombstone that reads as a miss.
func (c *OrderCache) Invalidate(ctx context.Context, id int64) error {
	return c.rdb.Set(ctx, fmt.Sprintf(KeyOrder, id), orderTombstone, TTLOrderCache).Err()
}
