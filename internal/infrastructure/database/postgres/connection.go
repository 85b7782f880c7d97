package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Pool defaults applied when the configuration leaves a setting at zero.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
	statementTimeoutMillis = "30000"
	lockTimeoutMillis      = "10000"
)

// Connection is the database/sql pool golang-migrate runs on.  The feed
// repository uses the pgx pool from NewPool.
type Connection struct {
	db     *sql.DB
	cfg    config.DatabaseConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens the pool and verifies it with a ping.
func NewConnection(cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	db, err := sqlOpen("postgres", DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}

	db.SetMaxOpenConns(orInt(cfg.MaxOpenConns, defaultMaxOpenConns))
	db.SetMaxIdleConns(orInt(cfg.MaxIdleConns, defaultMaxIdleConns))
	db.SetConnMaxLifetime(orDuration(cfg.ConnMaxLifetime, defaultConnMaxLifetime))
	db.SetConnMaxIdleTime(orDuration(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed").
			WithDetailf("host=%s port=%d", cfg.Host, cfg.Port)
	}

	log.Info("Connected to PostgreSQL database",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)

	return &Connection{db: db, cfg: cfg, logger: log}, nil
}

// NewConnectionWithDB wraps an existing pool.  Tests use it with sqlmock.
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Connection{db: db, logger: log}
}

// DB returns the underlying pool.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Close closes the pool once.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err == nil {
			c.logger.Info("Closed PostgreSQL database connection")
		} else {
			c.logger.Error("Failed to close PostgreSQL database connection", logging.Err(err))
		}
	})
	return err
}

// RunMigrations applies every pending migration from sourceURL
// (e.g. "file://internal/infrastructure/database/postgres/migrations") over
// the open pool.
func (c *Connection) RunMigrations(sourceURL string) error {
	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance").WithDetail("source=" + sourceURL)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		version, _, _ := m.Version()
		return errors.Wrap(err, errors.ErrCodeDatabaseError, fmt.Sprintf("failed to run migrations (current version: %d)", version))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		c.logger.Warn("Failed to get migration version", logging.Err(err))
	}

	c.logger.Info("Database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// DSN builds the connection URL for cfg.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}

	q := u.Query()
	sslMode := strings.TrimSpace(cfg.SSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	q.Set("statement_timeout", statementTimeoutMillis)
	q.Set("lock_timeout", lockTimeoutMillis)

	u.RawQuery = q.Encode()
	return u.String()
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDuration(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

//Personal.AI order the ending
