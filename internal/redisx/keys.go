package redisx

import "time"

const (
	// Idempotency create order: idem:order:create:{Idempotency-Key} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"

	// Cache order: order:{order_id} -> JSON domain.Order
	KeyOrder = "order:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLOrderCache  = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
