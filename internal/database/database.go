package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v4/stdlib" // pgx driver
	_ "github.com/lib/pq"              // postgres driver
	"github.com/rs/zerolog/log"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/saltyorg/wbnkit/internal/config"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxIdleTime = 30 * time.Minute
	pingTimeout            = 5 * time.Second
)

// DB wraps the shared database connection pool together with the dialect
// of its driver.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	name    string
}

// Open creates a connection for a database configuration entry and verifies
// it with a ping. SQL statements are logged through zerolog at debug level.
func Open(ctx context.Context, name string, cfg config.DatabaseConfig) (*DB, error) {
	dialect, rest, err := splitDSN(cfg.Connection.DSN)
	if err != nil {
		return nil, err
	}

	dsn, err := driverDSN(dialect, rest, cfg.Connection.Username, cfg.Connection.Password)
	if err != nil {
		return nil, err
	}

	raw, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		log.Debug().Err(err).Str("database", name).Msg("Could not create database connection")
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, name, err)
	}
	driver := raw.Driver()
	_ = raw.Close()

	settings := config.NewLoader(cfg)
	conn := sqldblogger.OpenDriver(dsn, driver, zerologadapter.New(log.Logger), queryLogOptions(settings)...)

	conn.SetMaxOpenConns(settings.Int("max_open_conns", defaultMaxOpenConns))
	conn.SetMaxIdleConns(settings.Int("max_idle_conns", defaultMaxIdleConns))
	conn.SetConnMaxIdleTime(settings.Duration("conn_max_idle_time", defaultConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		log.Debug().Err(err).Str("database", name).Msg("Could not create database connection")
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, name, err)
	}

	log.Debug().Str("database", name).Str("driver", dialect.Driver).Msg("Database connection established")

	return &DB{
		conn:    conn,
		dialect: dialect,
		name:    name,
	}, nil
}

// queryLogOptions configures statement logging. The global logger already
// stamps "time", so the statement start time gets its own field.
func queryLogOptions(settings *config.Loader) []sqldblogger.Option {
	level := sqldblogger.LevelDebug
	switch settings.String("log_level", "debug") {
	case "trace":
		level = sqldblogger.LevelTrace
	case "info":
		level = sqldblogger.LevelInfo
	}

	return []sqldblogger.Option{
		sqldblogger.WithSQLQueryAsMessage(true),
		sqldblogger.WithTimeFieldname("query_time"),
		sqldblogger.WithLogArguments(settings.Bool("log_arguments", false)),
		sqldblogger.WithExecerLevel(level),
		sqldblogger.WithQueryerLevel(level),
		sqldblogger.WithPreparerLevel(level),
	}
}

// Name returns the configuration entry the connection was created from.
func (db *DB) Name() string {
	return db.name
}

// Dialect returns the SQL dialect of the underlying driver.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
