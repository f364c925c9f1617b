package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/wbnkit/internal/model"
)

func TestUser_Validate(t *testing.T) {
	err := (&User{Name: " ", Email: ""}).Validate()

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.Errors{
		"name":  "Name is required",
		"email": "Email is required",
	}, verr.Fields)

	assert.NoError(t, (&User{Name: "A", Email: "a@x.com"}).Validate())
}

func TestNote_Validate(t *testing.T) {
	err := (&Note{Title: "", Status: "deleted"}).Validate()

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.Errors{
		"title":  "Title is required",
		"status": model.InvalidValueMessage,
	}, verr.Fields)

	note := NewNote()
	note.Title = "Hello"
	assert.NoError(t, note.Validate())
}

func TestUser_SchemaExcludesRelations(t *testing.T) {
	var names []string
	for _, f := range NewUser().Schema().Attributes() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "email", model.FieldCreatedOn, model.FieldLastUpdatedOn}, names)
}

func TestUser_RefsCoverSchema(t *testing.T) {
	u := NewUser()
	for _, f := range u.Schema().Fields() {
		assert.NotNil(t, u.Ref(f.Name), f.Name)
	}

	n := NewNote()
	for _, f := range n.Schema().Attributes() {
		assert.NotNil(t, n.Ref(f.Name), f.Name)
	}
}

func TestUser_JSON(t *testing.T) {
	created := "2024-03-01 09:30:00"
	u := &User{ID: 1, Name: "A", Email: "a@x.com"}
	u.CreatedOn = &created

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"A","email":"a@x.com","created_on":"2024-03-01 09:30:00"}`, string(data))
}
