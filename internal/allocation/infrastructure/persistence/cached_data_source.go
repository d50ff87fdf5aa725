package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// DefaultCacheTTL bounds how stale a cached skill read may be.
const DefaultCacheTTL = 5 * time.Minute

const skillsCacheKey = "skills"

func skillCacheKey(id int64) string {
	return "skill:" + strconv.FormatInt(id, 10)
}

// CachedDataSource caches the skill catalog and single-skill lookups, the
// reads repeated for every member of a team listing. All other reads pass
// through. Cache failures are logged and fall back to the wrapped source.
type CachedDataSource struct {
	domain.DataSource

	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewCachedDataSource wraps next with cache. A non-positive ttl selects
// DefaultCacheTTL.
func NewCachedDataSource(next domain.DataSource, cache Cache, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *CachedDataSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CachedDataSource{
		DataSource: next,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
		metrics:    metrics,
	}
}

func (c *CachedDataSource) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	return cached(ctx, c, skillCacheKey(id), func() (*domain.Skill, error) {
		return c.DataSource.GetSkill(ctx, id)
	})
}

func (c *CachedDataSource) GetSkills(ctx context.Context) ([]domain.Skill, error) {
	return cached(ctx, c, skillsCacheKey, func() ([]domain.Skill, error) {
		return c.DataSource.GetSkills(ctx)
	})
}

// Invalidate drops the cached catalog and the given skills.
func (c *CachedDataSource) Invalidate(ctx context.Context, skillIDs ...int64) error {
	keys := []string{skillsCacheKey}
	for _, id := range skillIDs {
		keys = append(keys, skillCacheKey(id))
	}
	return c.cache.Delete(ctx, keys...)
}

func cached[T any](ctx context.Context, c *CachedDataSource, key string, load func() (T, error)) (T, error) {
	tag := observability.T("key", keyKind(key))

	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key, observability.ErrorKey, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.metrics.Counter(observability.MetricCacheHits, 1, tag)
			return v, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}
	c.metrics.Counter(observability.MetricCacheMisses, 1, tag)

	v, err := load()
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "key", key, observability.ErrorKey, err)
		}
	}
	return v, nil
}

func keyKind(key string) string {
	if key == skillsCacheKey {
		return skillsCacheKey
	}
	return "skill"
}
