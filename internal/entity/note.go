package entity

import "github.com/saltyorg/wbnkit/internal/model"

// Note statuses.
const (
	NoteStatusDraft     = "draft"
	NoteStatusPublished = "published"
	NoteStatusArchived  = "archived"
)

// NoteStatuses lists the accepted Note.Status values.
var NoteStatuses = []string{NoteStatusDraft, NoteStatusPublished, NoteStatusArchived}

var noteSchema = model.NewSchema("notes", "Note", false,
	model.Field{Name: model.FieldID, Type: model.BindInt},
	model.Field{Name: "user_id", Type: model.BindInt},
	model.Field{Name: "title", Type: model.BindString},
	model.Field{Name: "body", Type: model.BindString},
	model.Field{Name: "status", Type: model.BindString},
)

// Note is a short text owned by a user. Notes are not timestamped.
type Note struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// NewNote returns an empty draft Note.
func NewNote() *Note {
	return &Note{Status: NoteStatusDraft}
}

func (n *Note) Schema() *model.Schema {
	return noteSchema
}

func (n *Note) Ref(field string) any {
	switch field {
	case model.FieldID:
		return &n.ID
	case "user_id":
		return &n.UserID
	case "title":
		return &n.Title
	case "body":
		return &n.Body
	case "status":
		return &n.Status
	}
	return nil
}

// Validate checks the title and status.
func (n *Note) Validate() error {
	errs := model.Errors{}
	model.ValidateNotNullFields(n, map[string]string{"title": "Title is required"}, errs)
	model.ValidateEnumFields(n, map[string][]string{"status": NoteStatuses}, errs)
	return errs.Err()
}
