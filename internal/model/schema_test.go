package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func TestSchema_Attributes(t *testing.T) {
	timestamped := NewSchema("users", "User", true,
		Field{Name: FieldID},
		Field{Name: "name"},
		Field{Name: "rel_posts"},
	)
	assert.Equal(t, []string{"name", FieldCreatedOn, FieldLastUpdatedOn}, fieldNames(timestamped.Attributes()))
	assert.Equal(t, []string{"name", FieldLastUpdatedOn}, fieldNames(timestamped.updateAttributes()))
	assert.Equal(t, []string{FieldID, "name", FieldCreatedOn, FieldLastUpdatedOn}, fieldNames(timestamped.persisted()))

	plain := NewSchema("tags", "Tag", false, Field{Name: "label"})
	assert.Equal(t, []string{"label"}, fieldNames(plain.Attributes()))
	assert.Equal(t, []string{"label"}, fieldNames(plain.persisted()))
	assert.True(t, plain.Has(FieldCreatedOn))
}

func TestSchema_ColumnDefaultsToName(t *testing.T) {
	s := NewSchema("users", "User", false,
		Field{Name: "email", Column: "email_address"},
		Field{Name: "name"},
	)

	f, ok := s.Field("name")
	require.True(t, ok)
	assert.Equal(t, "name", f.Column)

	f, ok = s.fieldForColumn("email_address")
	require.True(t, ok)
	assert.Equal(t, "email", f.Name)

	_, ok = s.fieldForColumn("email")
	assert.False(t, ok)
}

func TestSchema_Declared(t *testing.T) {
	assert.True(t, NewSchema("users", "User", false).Declared())
	assert.False(t, NewSchema("", "User", false).Declared())
	assert.False(t, NewSchema("users", "", false).Declared())

	var nilSchema *Schema
	assert.False(t, nilSchema.Declared())
}

func TestNewSchema_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("users", "User", false, Field{Name: "name"}, Field{Name: "name"})
	})
	assert.Panics(t, func() {
		NewSchema("users", "User", false, Field{Name: FieldCreatedOn})
	})
	assert.Panics(t, func() {
		NewSchema("users", "User", false, Field{})
	})
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		bind    BindType
		want    any
		wantErr bool
	}{
		{name: "auto keeps value", in: 3, bind: BindAuto, want: 3},
		{name: "null", in: "x", bind: BindNull, want: nil},
		{name: "int to string", in: 12, bind: BindString, want: "12"},
		{name: "string to int", in: " 7 ", bind: BindInt, want: int64(7)},
		{name: "whole float to int", in: 4.0, bind: BindInt, want: int64(4)},
		{name: "fraction to int", in: 4.5, bind: BindInt, wantErr: true},
		{name: "bad int", in: "seven", bind: BindInt, wantErr: true},
		{name: "string to float", in: "1.5", bind: BindFloat, want: 1.5},
		{name: "string to bool", in: "true", bind: BindBool, want: true},
		{name: "int to bool", in: 0, bind: BindBool, want: false},
		{name: "nil stays nil", in: nil, bind: BindInt, want: nil},
		{name: "uint64 to int", in: uint64(9), bind: BindInt, want: int64(9)},
		{name: "uint64 overflow", in: uint64(math.MaxUint64), bind: BindInt, wantErr: true},
		{name: "int8 to int", in: int8(-3), bind: BindInt, want: int64(-3)},
		{name: "int16 to int", in: int16(300), bind: BindInt, want: int64(300)},
		{name: "uint8 to int", in: uint8(200), bind: BindInt, want: int64(200)},
		{name: "whole float32 to int", in: float32(6), bind: BindInt, want: int64(6)},
		{name: "float32 fraction to int", in: float32(6.5), bind: BindInt, wantErr: true},
		{name: "huge float to int", in: 1e300, bind: BindInt, wantErr: true},
		{name: "int32 to float", in: int32(5), bind: BindFloat, want: float64(5)},
		{name: "uint to float", in: uint(8), bind: BindFloat, want: float64(8)},
		{name: "float32 to float", in: float32(0.5), bind: BindFloat, want: 0.5},
		{name: "uint16 to bool", in: uint16(1), bind: BindBool, want: true},
		{name: "struct to int", in: struct{}{}, bind: BindInt, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce(tt.in, tt.bind)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
