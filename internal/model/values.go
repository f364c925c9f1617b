package model

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// valueOf dereferences a field reference returned by Record.Ref.
// ok is false when the reference is nil or of an unsupported type.
func valueOf(ref any) (value any, ok bool) {
	switch p := ref.(type) {
	case *string:
		return *p, true
	case **string:
		if *p == nil {
			return nil, true
		}
		return **p, true
	case *int64:
		return *p, true
	case **int64:
		if *p == nil {
			return nil, true
		}
		return **p, true
	case *int:
		return int64(*p), true
	case *float64:
		return *p, true
	case **float64:
		if *p == nil {
			return nil, true
		}
		return **p, true
	case *bool:
		return *p, true
	case **bool:
		if *p == nil {
			return nil, true
		}
		return **p, true
	}
	return nil, false
}

// stringOf returns the string form of a field, or false when the field is
// absent or nil.
func stringOf(ref any) (string, bool) {
	v, ok := valueOf(ref)
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		if x {
			return "1", true
		}
		return "", true
	}
	return fmt.Sprint(v), true
}

// setInt64 stores id into an integer field reference.
func setInt64(ref any, id int64) bool {
	switch p := ref.(type) {
	case *int64:
		*p = id
	case **int64:
		*p = &id
	case *int:
		*p = int(id)
	default:
		return false
	}
	return true
}

// SetID assigns id to the record's primary key. It reports false when the
// record has no integer id field.
func SetID(rec Record, id int64) bool {
	return setInt64(rec.Ref(FieldID), id)
}

// int64Of reads an integer field reference; zero when unset.
func int64Of(ref any) int64 {
	switch p := ref.(type) {
	case *int64:
		return *p
	case **int64:
		if *p != nil {
			return **p
		}
	case *int:
		return int64(*p)
	}
	return 0
}

// setString stores s into a string field reference.
func setString(ref any, s string) bool {
	switch p := ref.(type) {
	case *string:
		*p = s
	case **string:
		*p = &s
	default:
		return false
	}
	return true
}

// coerce converts v to the Go type bound for t. Numeric inputs of any
// sized or unsigned kind are accepted; values that do not fit are rejected.
func coerce(v any, t BindType) (any, error) {
	if v == nil || t == BindAuto {
		return v, nil
	}

	switch t {
	case BindNull:
		return nil, nil
	case BindString:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
		return fmt.Sprint(v), nil
	case BindInt:
		if n, ok := intOf(v); ok {
			return n, nil
		}
	case BindFloat:
		if f, ok := floatOf(v); ok {
			return f, nil
		}
	case BindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
				return b, nil
			}
		default:
			if n, ok := intOf(v); ok {
				return n != 0, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %v as %s", ErrInvalidValue, v, t)
}

// intOf converts integral values of any numeric kind, bools and decimal
// strings to int64.
func intOf(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// floatOf converts values of any numeric kind and decimal strings to
// float64.
func floatOf(v any) (float64, bool) {
	if x, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
