package nl2sql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/tablechat/tablechat/internal/cache"
)

// CachingTranslator remembers the inner translator's output per question
// and schema fingerprint. Cache failures degrade to a model call; they
// never fail the request.
type CachingTranslator struct {
	inner       Translator
	cache       cache.Cache
	ttl         time.Duration
	fingerprint string
	logger      *slog.Logger
}

func NewCachingTranslator(inner Translator, c cache.Cache, ttl time.Duration, fingerprint string, logger *slog.Logger) *CachingTranslator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingTranslator{inner: inner, cache: c, ttl: ttl, fingerprint: fingerprint, logger: logger}
}

func (t *CachingTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	key := translationKey(req.Question, t.fingerprint)

	sql, hit, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.WarnContext(ctx, "translation cache read failed", slog.String("error", err.Error()))
	}
	if hit {
		return Result{SQL: sql, Provider: "cache", Cached: true}, nil
	}

	result, err := t.inner.Translate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := t.cache.Set(ctx, key, result.SQL, t.ttl); err != nil {
		t.logger.WarnContext(ctx, "translation cache write failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// translationKey normalizes the question so trivially reworded whitespace
// and casing share one cache slot.
func translationKey(question, fingerprint string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(question), " "))
	sum := sha256.Sum256([]byte(normalized + "\n" + fingerprint))
	return hex.EncodeToString(sum[:])
}
