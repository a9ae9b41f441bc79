// Package seeder fills the product table with random demo items so the
// chat endpoint has something to answer questions about.
package seeder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Table     string
	Count     int
	BatchSize int
	Seed      int64
}

func DefaultConfig() Config {
	return Config{
		Table:     "items",
		Count:     100,
		BatchSize: 25,
		Seed:      time.Now().UTC().UnixNano(),
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyString(lookup, "TABLECHAT_SEED_TABLE", &cfg.Table); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TABLECHAT_SEED_COUNT", &cfg.Count); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TABLECHAT_SEED_BATCH_SIZE", &cfg.BatchSize); err != nil {
		return Config{}, err
	}
	if err := applyInt64(lookup, "TABLECHAT_SEED_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Table) == "" {
		return Config{}, fmt.Errorf("TABLECHAT_SEED_TABLE is required")
	}
	if cfg.Count <= 0 {
		return Config{}, fmt.Errorf("TABLECHAT_SEED_COUNT must be > 0")
	}
	if cfg.BatchSize <= 0 {
		return Config{}, fmt.Errorf("TABLECHAT_SEED_BATCH_SIZE must be > 0")
	}

	cfg.Table = strings.TrimSpace(cfg.Table)
	return cfg, nil
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyInt64(lookup LookupFunc, key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}
