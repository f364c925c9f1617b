package model

import (
	"slices"
	"strings"
)

// InvalidValueMessage is recorded by ValidateEnumFields.
const InvalidValueMessage = "Invalid value for field"

// Errors maps a field name to its first validation message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if e[field] != "" {
		return
	}
	e[field] = msg
}

// Err returns a *ValidationError when any message was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidateNotNullFields records the given message for each field whose value
// is absent, empty or only whitespace.
func ValidateNotNullFields(rec Record, fields map[string]string, errs Errors) {
	for field, msg := range fields {
		s, ok := stringOf(rec.Ref(field))
		if !ok || strings.TrimSpace(s) == "" {
			errs.Add(field, msg)
		}
	}
}

// ValidateEnumFields records InvalidValueMessage for each field whose value
// is not one of the allowed values.
func ValidateEnumFields(rec Record, fields map[string][]string, errs Errors) {
	for field, allowed := range fields {
		s, ok := stringOf(rec.Ref(field))
		if !ok || !slices.Contains(allowed, s) {
			errs.Add(field, InvalidValueMessage)
		}
	}
}
