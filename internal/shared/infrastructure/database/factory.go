package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config selects and tunes a database connection.
type Config struct {
	// Driver is DriverAuto, DriverPostgres or DriverSQLite. Empty means auto.
	Driver Driver

	// URL is the Postgres connection string, or a sqlite:// URL.
	URL string

	// SQLitePath is the SQLite file. Defaults to DefaultSQLitePath().
	SQLitePath string

	// MaxConns caps the Postgres pool. Zero keeps the pgx default.
	MaxConns int

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// Resolve returns the concrete driver for the config.
func (c Config) Resolve() Driver {
	if c.Driver == "" || c.Driver == DriverAuto {
		return DetectDriver(c.URL)
	}
	return c.Driver
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openersMu sync.RWMutex
	openers   = make(map[Driver]Opener)
)

// Register installs the opener for a driver. Driver packages call it from
// init, so importing them for side effects enables the driver.
func Register(driver Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[driver] = open
}

// NewConnection opens a connection with the registered opener for the
// configured driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Resolve()

	openersMu.RLock()
	open, ok := openers[driver]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns ~/.taskmatch/taskmatch.db, falling back to the
// working directory when the home directory is unknown.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".taskmatch", "taskmatch.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
