package database

import (
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
)

// Dialect captures the SQL differences between supported drivers.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string
	// Placeholder is the bind parameter style.
	Placeholder sq.PlaceholderFormat
	// LimitWrites reports whether UPDATE and DELETE accept a LIMIT clause.
	LimitWrites bool
	// Returning reports whether inserts must use RETURNING to obtain the
	// generated key (drivers without LastInsertId).
	Returning bool
	// Goose is the migration dialect name.
	Goose string
}

var dialects = map[string]Dialect{
	"sqlite": {
		Driver:      "sqlite",
		Placeholder: sq.Question,
		Goose:       "sqlite3",
	},
	"mysql": {
		Driver:      "mysql",
		Placeholder: sq.Question,
		LimitWrites: true,
		Goose:       "mysql",
	},
	"pgx": {
		Driver:      "pgx",
		Placeholder: sq.Dollar,
		Returning:   true,
		Goose:       "postgres",
	},
	"postgres": {
		Driver:      "postgres",
		Placeholder: sq.Dollar,
		Returning:   true,
		Goose:       "postgres",
	},
}

// DialectFor returns the dialect registered for a driver name.
func DialectFor(driver string) (Dialect, bool) {
	d, ok := dialects[driver]
	return d, ok
}

// splitDSN splits a "<driver>:<driver dsn>" string.
func splitDSN(dsn string) (Dialect, string, error) {
	driver, rest, ok := strings.Cut(dsn, ":")
	if !ok || driver == "" {
		return Dialect{}, "", fmt.Errorf("%w: dsn %q must be of the form <driver>:<dsn>", ErrConfiguration, dsn)
	}
	dialect, ok := DialectFor(driver)
	if !ok {
		return Dialect{}, "", fmt.Errorf("%w: unsupported driver %q", ErrConfiguration, driver)
	}
	return dialect, rest, nil
}

// driverDSN injects credentials into the driver specific DSN.
func driverDSN(dialect Dialect, dsn, username, password string) (string, error) {
	switch dialect.Driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("%w: invalid mysql dsn: %w", ErrConfiguration, err)
		}
		if username != "" {
			cfg.User = username
			cfg.Passwd = password
		}
		// Report matched rather than changed rows so updates count like the other drivers.
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	case "pgx", "postgres":
		if username == "" {
			return dsn, nil
		}
		if strings.Contains(dsn, "://") {
			u, err := url.Parse(dsn)
			if err != nil {
				return "", fmt.Errorf("%w: invalid postgres dsn: %w", ErrConfiguration, err)
			}
			u.User = url.UserPassword(username, password)
			return u.String(), nil
		}
		return strings.TrimSpace(fmt.Sprintf("%s user=%s password=%s", dsn, username, password)), nil
	default:
		return dsn, nil
	}
}
