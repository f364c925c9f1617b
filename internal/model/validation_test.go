package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name     string
	Nickname *string
	Kind     string
	Age      int64
}

var contactSchema = NewSchema("contacts", "Contact", false,
	Field{Name: "name"},
	Field{Name: "nickname"},
	Field{Name: "kind"},
	Field{Name: "age", Type: BindInt},
)

func (c *contact) Schema() *Schema { return contactSchema }

func (c *contact) Ref(field string) any {
	switch field {
	case "name":
		return &c.Name
	case "nickname":
		return &c.Nickname
	case "kind":
		return &c.Kind
	case "age":
		return &c.Age
	}
	return nil
}

func TestValidateNotNullFields(t *testing.T) {
	c := &contact{Name: "   ", Kind: "friend"}
	errs := Errors{}

	ValidateNotNullFields(c, map[string]string{
		"name":     "Name is required",
		"nickname": "Nickname is required",
		"kind":     "Kind is required",
		"age":      "Age is required",
		"missing":  "Missing is required",
	}, errs)

	assert.Equal(t, Errors{
		"name":     "Name is required",
		"nickname": "Nickname is required",
		"missing":  "Missing is required",
	}, errs)
}

func TestValidateEnumFields(t *testing.T) {
	c := &contact{Name: "A", Kind: "enemy", Age: 3}
	errs := Errors{}

	ValidateEnumFields(c, map[string][]string{
		"kind": {"friend", "family"},
		"age":  {"1", "2", "3"},
	}, errs)

	assert.Equal(t, Errors{"kind": InvalidValueMessage}, errs)
}

func TestValidate_FirstErrorWins(t *testing.T) {
	c := &contact{Kind: ""}
	errs := Errors{}

	ValidateNotNullFields(c, map[string]string{"kind": "Kind is required"}, errs)
	ValidateEnumFields(c, map[string][]string{"kind": {"friend"}}, errs)

	assert.Equal(t, "Kind is required", errs["kind"])
}

func TestErrors_Err(t *testing.T) {
	assert.NoError(t, Errors{}.Err())

	err := Errors{"b": "second", "a": "first"}.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "first", verr.Fields["a"])
}
