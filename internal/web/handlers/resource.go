package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saltyorg/wbnkit/internal/model"
)

// Entity is a record that can validate itself.
type Entity interface {
	model.Record
	Validate() error
}

// Resource serves JSON CRUD endpoints for one entity type.
type Resource[T Entity] struct {
	model     *model.Model[T]
	newRecord func() T
}

// NewResource creates a resource over m.
func NewResource[T Entity](m *model.Model[T], newRecord func() T) *Resource[T] {
	return &Resource[T]{model: m, newRecord: newRecord}
}

// Routes mounts the resource on r.
func (res *Resource[T]) Routes(r chi.Router) {
	r.Get("/", res.List)
	r.Post("/", res.Create)
	r.Get("/{id}", res.Get)
	r.Put("/{id}", res.Update)
	r.Delete("/{id}", res.Delete)
}

// List returns every record, or the records matching ?field=&value=.
func (res *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	var (
		recs []T
		err  error
	)
	if field := r.URL.Query().Get("field"); field != "" {
		recs, err = res.model.FindBy(r.Context(), field, r.URL.Query().Get("value"))
	} else {
		recs, err = res.model.All(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, recs)
}

// Get returns one record.
func (res *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := res.model.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// Create validates and inserts the request body.
func (res *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	rec := res.newRecord()
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	model.SetID(rec, 0)

	if err := rec.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if _, err := res.model.Create(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, rec)
}

// Update applies the request body on top of the stored record.
func (res *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := res.model.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	model.SetID(rec, id)

	if err := rec.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if _, err := res.model.Update(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	// Answer with the stored row, not the decoded body, so fields the
	// update never writes are reported as persisted.
	stored, err := res.model.Find(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stored)
}

// Delete removes one record.
func (res *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	n, err := res.model.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if n == 0 {
		jsonError(w, "Record not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
