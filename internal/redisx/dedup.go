package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Dedup marks events as processed per consuming service.
type Dedup struct {
	rdb     *redis.Client
	service string
}

func NewDedup(rdb *redis.Client, service string) *Dedup {
	return &Dedup{rdb: rdb, service: service}
}

// Claim returns true if the caller is the first to see eventID.
func (d *Dedup) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, d.key(eventID), 1, TTLDedup).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim %s: %w", eventID, err)
	}
	return ok, nil
}

// Release forgets a claim so a redelivery is processed again.
func (d *Dedup) Release(ctx context.Context, eventID string) error {
	return d.rdb.Del(ctx, d.key(eventID)).Err()
}

func (d *Dedup) key(eventID string) string {
	return fmt.Sprintf(KeyDedup, d.service, eventID)
}
