package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrConfiguration is returned when a database entry is missing or invalid.
	ErrConfiguration = errors.New("database configuration error")

	// ErrConnection is returned when the connection cannot be established.
	ErrConnection = errors.New("could not create database connection")

	// ErrTableNotFound is returned when the backend reports an unknown table.
	ErrTableNotFound = errors.New("table not found")

	// ErrUniqueViolation is returned when the backend reports an integrity
	// constraint violation.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrPersistence wraps every other backend failure.
	ErrPersistence = errors.New("persistence error")
)

type errorClass int

const (
	classOther errorClass = iota
	classUndefinedTable
	classIntegrity
)

// Classify translates a driver error into one of the typed errors above.
// The driver error stays in the chain for errors.As.
func Classify(err error, table string) error {
	if err == nil {
		return nil
	}
	switch classOf(err) {
	case classUndefinedTable:
		return fmt.Errorf("%w: %s: %w", ErrTableNotFound, table, err)
	case classIntegrity:
		return fmt.Errorf("%w: %s: %w", ErrUniqueViolation, table, err)
	default:
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}

func classOf(err error) errorClass {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
			return classIntegrity
		case strings.Contains(sqliteErr.Error(), "no such table"):
			return classUndefinedTable
		}
		return classOther
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return classifySQLState(string(mysqlErr.SQLState[:]))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifySQLState(string(pqErr.Code))
	}

	return classOther
}

// classifySQLState maps SQLSTATE codes: 42S02 (mysql) and 42P01 (postgres)
// are unknown tables, class 23 is integrity constraint violation.
func classifySQLState(state string) errorClass {
	switch {
	case state == "42S02" || state == "42P01":
		return classUndefinedTable
	case strings.HasPrefix(state, "23"):
		return classIntegrity
	}
	return classOther
}
