package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrRecordNotFound is returned when a lookup by id matches no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrColumnNotFound is returned by finders given an undeclared column.
	ErrColumnNotFound = errors.New("column not found")

	// ErrMissingPrimaryKey is returned by Update when the record has no id.
	ErrMissingPrimaryKey = errors.New("missing primary key")

	// ErrSchemaNotDeclared is returned when an entity lacks a table or type
	// identifier. It is always wrapped together with database.ErrTableNotFound.
	ErrSchemaNotDeclared = errors.New("entity schema not declared")

	// ErrInvalidValue is returned when a value cannot be bound as the
	// requested type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries the per-field messages collected by the
// Validate helpers.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
