// Package cache holds translated SQL keyed by question and schema
// fingerprint, so repeated questions skip the language model entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a string key-value store with per-entry expiry. Get reports a
// miss with ok=false rather than an error; errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
