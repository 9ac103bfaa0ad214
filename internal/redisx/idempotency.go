package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Idempotency maps an Idempotency-Key header to the order it created.
// Two requests racing with the same fresh key can both create an order;
// only the first mapping is kept.
type Idempotency struct {
	rdb *redis.Client
}

func NewIdempotency(rdb *redis.Client) *Idempotency { return &Idempotency{rdb: rdb} }

func (i *Idempotency) Lookup(ctx context.Context, key string) (int64, bool, error) {
	id, err := i.rdb.Get(ctx, fmt.Sprintf(KeyIdemOrderCreate, key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

func (i *Idempotency) Remember(ctx context.Context, key string, orderID int64) error {
	err := i.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemOrderCreate, key), orderID, TTLIdempotency).Err()
	if err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}
