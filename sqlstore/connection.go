// Package sqlstore provides a thin wrapper around database/sql for stores
// that each represent a single table of one business object. MySQL is the
// primary target; the postgres and sqlite drivers are registered as well so
// the same stores run against any of the three.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
	"go.uber.org/zap"

	"github.com/ilfrich/go-basic-utils/logging"
)

// Config represents database connection configuration.
type Config struct {
	Driver             string        `yaml:"driver" json:"driver"`
	DSN                string        `yaml:"dsn" json:"dsn"`
	MaxOpenConns       int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `yaml:"conn_max_idle_time" json:"conn_max_idle_time"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" json:"slow_query_threshold"`
}

// Connection wraps a pooled database handle shared by one or more stores.
type Connection struct {
	logger    *zap.Logger
	db        *sql.DB
	driver    string
	slowQuery time.Duration
}

// Connect validates the driver, opens the connection pool and pings the
// database.
func Connect(config Config, logger *zap.Logger) (*Connection, error) {
	switch config.Driver {
	case "postgres", "mysql", "sqlite", "sqlite3":
		// Valid drivers
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}

	// Normalize SQLite driver name
	driver := config.Driver
	if driver == "sqlite" {
		driver = "sqlite3"
	}

	if logger == nil {
		logger = logging.New("sqlstore")
	}

	db, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(20)
	}

	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(5)
	}

	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	slowQuery := config.SlowQueryThreshold
	if slowQuery == 0 {
		slowQuery = 100 * time.Millisecond
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		zap.String("driver", driver),
		zap.Int("max_open_conns", config.MaxOpenConns),
	)

	return &Connection{
		logger:    logger,
		db:        db,
		driver:    driver,
		slowQuery: slowQuery,
	}, nil
}

// Close closes the connection pool.
func (c *Connection) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping checks database connectivity.
func (c *Connection) Ping(ctx context.Context) error {
	if c.db == nil {
		return errors.New("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// Driver returns the normalised driver name.
func (c *Connection) Driver() string {
	return c.driver
}

// Stats returns pool statistics.
func (c *Connection) Stats() sql.DBStats {
	if c.db == nil {
		return sql.DBStats{}
	}
	return c.db.Stats()
}

// Execute runs a statement without returning rows.
func (c *Connection) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := c.db.ExecContext(ctx, query, args...)
	c.logSlow(query, time.Since(start))
	return result, err
}

// Query runs a query and returns the rows.
func (c *Connection) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	c.logSlow(query, time.Since(start))
	return rows, err
}

// QueryRow runs a query and returns a single row.
func (c *Connection) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

// Begin starts a new transaction.
func (c *Connection) Begin(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

func (c *Connection) logSlow(query string, duration time.Duration) {
	if duration > c.slowQuery {
		c.logger.Warn("Slow query",
			zap.String("query", query),
			zap.Duration("duration", duration),
		)
	}
}

// tableExists checks whether a table exists, per driver.
func (c *Connection) tableExists(ctx context.Context, tableName string) bool {
	var query string
	switch c.driver {
	case "sqlite3":
		query = "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
	case "postgres":
		query = "SELECT table_name FROM information_schema.tables WHERE table_schema='public' AND table_name=$1"
	case "mysql":
		query = "SELECT table_name FROM information_schema.tables WHERE table_name=?"
	default:
		return false
	}

	var name string
	err := c.QueryRow(ctx, query, tableName).Scan(&name)
	return err == nil
}
