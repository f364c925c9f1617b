// Package entity declares the persisted entity types.
package entity

import "github.com/saltyorg/wbnkit/internal/model"

var userSchema = model.NewSchema("users", "User", true,
	model.Field{Name: model.FieldID, Type: model.BindInt},
	model.Field{Name: "name", Type: model.BindString},
	model.Field{Name: "email", Type: model.BindString},
	model.Field{Name: "rel_notes"},
)

// User is an account owning notes.
type User struct {
	model.Base

	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// RelNotes is filled by callers; it is never persisted.
	RelNotes []*Note `json:"notes,omitempty"`
}

// NewUser returns an empty User.
func NewUser() *User {
	return &User{}
}

func (u *User) Schema() *model.Schema {
	return userSchema
}

func (u *User) Ref(field string) any {
	switch field {
	case model.FieldID:
		return &u.ID
	case "name":
		return &u.Name
	case "email":
		return &u.Email
	case "rel_notes":
		return &u.RelNotes
	}
	return u.Base.Ref(field)
}

// Validate checks the required fields.
func (u *User) Validate() error {
	errs := model.Errors{}
	model.ValidateNotNullFields(u, map[string]string{
		"name":  "Name is required",
		"email": "Email is required",
	}, errs)
	return errs.Err()
}
