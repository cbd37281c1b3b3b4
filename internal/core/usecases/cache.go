package usecases

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

// cacheGet decodes the cached value at key into dst. It reports false on a
// miss, a cache failure or an undecodable entry; failures are logged and
// never returned, so callers fall back to the source of truth.
func cacheGet(ctx context.Context, cache ports.CacheService, op, key string, dst any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	switch {
	case errors.Is(err, ports.ErrCacheMiss):
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	case err != nil:
		metrics.CacheErrors.WithLabelValues(op).Inc()
		logging.FromContext(ctx).Warn("cache get failed", "op", op, "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheErrors.WithLabelValues(op).Inc()
		logging.FromContext(ctx).Warn("cache entry undecodable", "op", op, "key", key, "error", err)
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

// cacheSet stores v at key for ttl seconds, best effort.
func cacheSet(ctx context.Context, cache ports.CacheService, op, key string, v any, ttl int) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, ttl); err != nil {
		logging.FromContext(ctx).Warn("cache set failed", "op", op, "key", key, "error", err)
	}
}

// cacheDelete drops key, best effort.
func cacheDelete(ctx context.Context, cache ports.CacheService, op, key string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("cache delete failed", "op", op, "key", key, "error", err)
	}
}
