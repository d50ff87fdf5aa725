// Package app wires configuration, infrastructure and the allocation
// services into a Container.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/subscribers"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/domain"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/infrastructure/persistence"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskmatch/pkg/config"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

// ErrNoDatabase is returned by operations that need SQL storage when the
// container serves a fixture from memory.
var ErrNoDatabase = errors.New("no database configured")

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Storage. DBConn is nil when reads are served from a fixture.
	DBConn     database.Connection
	DataSource domain.DataSource

	// Redis is nil when REDIS_URL is unset or unreachable in development.
	RedisClient *redis.Client
	Cache       persistence.Cache
	cached      *persistence.CachedDataSource

	// Events. Subscriber is set only when events stay in process.
	EventPublisher eventbus.Publisher
	Subscriber     *subscribers.RecommendationSubscriber

	// Allocation
	Scorer     *services.MatchScorer
	Aggregator *services.InsightAggregator
	Service    *application.Service
}

// NewContainer builds the container from configuration. Optional
// infrastructure (Redis, RabbitMQ) degrades to in-process fallbacks in
// development and fails the build elsewhere.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initEvents(); err != nil {
		c.Close()
		return nil, err
	}

	var rng services.RandomSource
	if cfg.RandomSeed != 0 {
		rng = services.NewSeededSource(cfg.RandomSeed)
	}

	c.Scorer = services.NewMatchScorer(
		c.DataSource,
		services.MatchScorerConfig{Concurrency: cfg.RankConcurrency},
		logger,
		c.Metrics,
	)
	c.Aggregator = services.NewInsightAggregator(c.DataSource, rng, logger)
	c.Service = application.NewService(c.DataSource, c.Scorer, c.Aggregator, c.EventPublisher, logger, c.Metrics)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	cfg := c.Config

	if cfg.FixturePath != "" {
		ds, err := loadFixtureSource(cfg.FixturePath)
		if err != nil {
			return err
		}
		c.DataSource = ds
		c.Logger.Info("serving team fixture from memory", "path", cfg.FixturePath)
		return nil
	}

	conn, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	c.DBConn = conn
	c.Health.Register("database", observability.PingChecker(observability.HealthStatusUnhealthy, conn.Ping))
	c.Logger.Info("connected to database", "driver", conn.Driver())

	c.DataSource = persistence.NewSQLDataSource(conn)
	if cfg.BreakerEnabled {
		c.DataSource = persistence.NewBreakerDataSource(c.DataSource, persistence.BreakerConfig{
			FailureThreshold: convert.IntToUint32Clamped(cfg.BreakerFailureThreshold),
			MaxRequests:      1,
			Timeout:          cfg.BreakerTimeout,
		}, c.Logger, c.Metrics)
	}
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	cfg := c.Config

	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			c.RedisClient = client
			c.Cache = persistence.NewRedisCache(client, persistence.DefaultCachePrefix)
			c.Health.Register("redis", observability.PingChecker(observability.HealthStatusDegraded, func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			c.Logger.Info("connected to Redis")
		case cfg.IsDevelopment():
			c.Logger.Warn("Redis not available, using in-memory cache", observability.ErrorKey, err)
		default:
			return err
		}
	}
	if c.Cache == nil {
		c.Cache = persistence.NewInMemoryCache()
	}

	c.cached = persistence.NewCachedDataSource(c.DataSource, c.Cache, cfg.CacheTTL, c.Logger, c.Metrics)
	c.DataSource = c.cached
	return nil
}

func (c *Container) initEvents() error {
	cfg := c.Config

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.PingChecker(observability.HealthStatusDegraded, publisher.Ping))
			return nil
		case cfg.IsDevelopment():
			c.Logger.Warn("RabbitMQ not available, keeping events in process", observability.ErrorKey, err)
		default:
			return err
		}
	}

	bus := eventbus.NewInProcessEventBus(c.Logger)
	c.Subscriber = subscribers.NewRecommendationSubscriber(c.Logger)
	bus.RegisterConsumer(c.Subscriber)
	c.EventPublisher = bus
	return nil
}

// Seed replaces the database contents with the fixture at path and drops
// cached skill reads.
func (c *Container) Seed(ctx context.Context, path string) (*persistence.SeedResult, error) {
	if c.DBConn == nil {
		return nil, ErrNoDatabase
	}
	fixture, err := persistence.LoadFixture(path)
	if err != nil {
		return nil, err
	}

	// Skills dropped by the new fixture must leave the cache too.
	var ids []int64
	previous, err := c.cached.DataSource.GetSkills(ctx)
	if err != nil {
		c.Logger.WarnContext(ctx, "failed to read skill catalog before seeding", observability.ErrorKey, err)
	}
	for _, s := range previous {
		ids = append(ids, s.ID)
	}

	result, err := persistence.Seed(ctx, c.DBConn, fixture)
	if err != nil {
		return nil, err
	}

	for _, s := range fixture.Skills {
		ids = append(ids, s.ID)
	}
	if err := c.cached.Invalidate(ctx, ids...); err != nil {
		c.Logger.WarnContext(ctx, "failed to invalidate skill cache", observability.ErrorKey, err)
	}
	return result, nil
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	for _, sample := range c.Metrics.Snapshot() {
		c.Logger.Debug("metric",
			"series", sample.Series,
			"kind", sample.Kind,
			"count", sample.Count,
			"value", sample.Value,
		)
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", observability.ErrorKey, err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", observability.ErrorKey, err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", observability.ErrorKey, err)
		}
	}
}
