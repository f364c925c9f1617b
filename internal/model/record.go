package model

// Record is implemented by entity types. Ref returns a pointer to the
// storage of a declared field, or nil when the entity has no such field.
type Record interface {
	Schema() *Schema
	Ref(field string) any
}

// Base carries the timestamp fields shared by timestamped entities.
// Values use TimestampLayout and are nil until stamped.
type Base struct {
	CreatedOn     *string `json:"created_on,omitempty"`
	LastUpdatedOn *string `json:"last_updated_on,omitempty"`
}

// Ref resolves the base fields.
func (b *Base) Ref(field string) any {
	switch field {
	case FieldCreatedOn:
		return &b.CreatedOn
	case FieldLastUpdatedOn:
		return &b.LastUpdatedOn
	}
	return nil
}
