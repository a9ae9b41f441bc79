package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tablechat/tablechat/internal/store"
)

// Run generates cfg.Count items and writes them in batches.
func Run(ctx context.Context, writer store.RowWriter, cfg Config, logger *slog.Logger) error {
	if writer == nil {
		return fmt.Errorf("row writer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	generator := NewGenerator(cfg.Seed)
	batch := make([]map[string]any, 0, cfg.BatchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := writer.Insert(ctx, cfg.Table, batch); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		written += len(batch)
		batch = batch[:0]
		return nil
	}

	for i := 0; i < cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, generator.NextItem())
		if len(batch) >= cfg.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "seed complete",
		slog.String("table", cfg.Table),
		slog.Int("items", written),
		slog.Int64("seed", cfg.Seed),
	)
	return nil
}
