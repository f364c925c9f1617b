package model

import (
	"fmt"
	"strings"
)

// BindType selects how a value is bound to a statement parameter.
type BindType int

const (
	BindAuto BindType = iota
	BindString
	BindInt
	BindFloat
	BindBool
	BindNull
)

func (b BindType) String() string {
	switch b {
	case BindString:
		return "string"
	case BindInt:
		return "int"
	case BindFloat:
		return "float"
	case BindBool:
		return "bool"
	case BindNull:
		return "null"
	default:
		return "auto"
	}
}

const (
	FieldID            = "id"
	FieldCreatedOn     = "created_on"
	FieldLastUpdatedOn = "last_updated_on"

	// RelationPrefix marks caller-populated association fields that are
	// never persisted.
	RelationPrefix = "rel_"

	// TimestampLayout is the storage format of the timestamp columns.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Field describes one declared field of an entity.
type Field struct {
	Name   string
	Column string
	Type   BindType
}

// Schema is the static descriptor of an entity type: its table, type
// identifier, timestamping flag and declared fields.
type Schema struct {
	Table      string
	Name       string
	Timestamps bool

	fields []Field
	byName map[string]int
}

var baseFields = []Field{
	{Name: FieldCreatedOn, Type: BindString},
	{Name: FieldLastUpdatedOn, Type: BindString},
}

// NewSchema builds a schema from the entity's own fields. The timestamp
// fields of Base are appended. Column defaults to Name. It panics on a
// duplicate or empty field name.
func NewSchema(table, name string, timestamps bool, fields ...Field) *Schema {
	s := &Schema{
		Table:      table,
		Name:       name,
		Timestamps: timestamps,
		byName:     make(map[string]int, len(fields)+len(baseFields)),
	}
	for _, f := range append(append([]Field{}, fields...), baseFields...) {
		if f.Name == "" {
			panic(fmt.Sprintf("model: empty field name in %s schema", name))
		}
		if _, dup := s.byName[f.Name]; dup {
			panic(fmt.Sprintf("model: duplicate field %q in %s schema", f.Name, name))
		}
		if f.Column == "" {
			f.Column = f.Name
		}
		s.byName[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Declared reports whether both the table and type identifiers are set.
func (s *Schema) Declared() bool {
	return s != nil && s.Table != "" && s.Name != ""
}

// Field returns the declared field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Fields returns every declared field, base fields included.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Attributes returns the writable fields: declared fields minus the primary
// key, minus relation fields, minus the base timestamps unless the entity is
// timestamped.
func (s *Schema) Attributes() []Field {
	attrs := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Name == FieldID || IsRelation(f.Name) {
			continue
		}
		if isBaseField(f.Name) && !s.Timestamps {
			continue
		}
		attrs = append(attrs, f)
	}
	return attrs
}

// updateAttributes is Attributes without created_on.
func (s *Schema) updateAttributes() []Field {
	attrs := s.Attributes()
	out := attrs[:0]
	for _, f := range attrs {
		if f.Name != FieldCreatedOn {
			out = append(out, f)
		}
	}
	return out
}

// persisted returns the primary key, when declared, followed by Attributes.
func (s *Schema) persisted() []Field {
	var out []Field
	if id, ok := s.Field(FieldID); ok {
		out = append(out, id)
	}
	return append(out, s.Attributes()...)
}

// fieldForColumn finds the persisted field stored in column.
func (s *Schema) fieldForColumn(column string) (Field, bool) {
	for _, f := range s.persisted() {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Schema) idColumn() string {
	if f, ok := s.Field(FieldID); ok {
		return f.Column
	}
	return FieldID
}

// IsRelation reports whether a field name carries the relation prefix.
func IsRelation(name string) bool {
	return strings.HasPrefix(name, RelationPrefix)
}

func isBaseField(name string) bool {
	return name == FieldCreatedOn || name == FieldLastUpdatedOn
}
