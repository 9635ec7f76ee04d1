package repository

import (
	"context"
	"time"
)

// CacheRepository stores computed results as opaque strings. A ttl of zero
// means the backend default.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
