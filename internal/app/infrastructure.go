package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/infrastructure/persistence"
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/taskmatch/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskmatch/pkg/config"
)

// openDatabase connects with the configured driver and applies migrations.
func openDatabase(ctx context.Context, cfg *config.Config) (database.Connection, error) {
	driver, err := database.ParseDriver(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.MaxDBConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return conn, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func loadFixtureSource(path string) (*persistence.MemoryDataSource, error) {
	fixture, err := persistence.LoadFixture(path)
	if err != nil {
		return nil, err
	}
	ds, err := persistence.NewMemoryDataSource(fixture)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return ds, nil
}
