package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/wbnkit/internal/database"
	"github.com/saltyorg/wbnkit/internal/model"
)

// PageData is passed to every HTML template.
type PageData struct {
	Title string
	Path  string
}

// Handlers contains the HTTP handlers that are not bound to an entity.
type Handlers struct {
	db        *database.DB
	templates map[string]*template.Template
}

// New creates a new Handlers instance
func New(db *database.DB, templates map[string]*template.Template) *Handlers {
	return &Handlers{
		db:        db,
		templates: templates,
	}
}

// Health reports that the server is up and which database it uses.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": h.db.Name(),
	})
}

// NotFound renders the errors/404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "errors/404.html", PageData{
		Title: "Not Found",
		Path:  r.URL.Path,
	})
}

// render renders a page template with the given status.
func (h *Handlers) render(w http.ResponseWriter, status int, name string, data PageData) {
	tmpl, ok := h.templates[name]
	if !ok {
		log.Error().Str("template", name).Msg("Template not found")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// jsonResponse writes v as JSON with the given status.
func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// jsonError sends a JSON error response
func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// statusFor maps model and database errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrColumnNotFound), errors.Is(err, model.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrUniqueViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// clientMessages are the only error texts sent to clients. Driver and
// schema details stay in the log.
var clientMessages = map[int]string{
	http.StatusNotFound:            "Record not found",
	http.StatusBadRequest:          "Invalid query",
	http.StatusConflict:            "Record already exists",
	http.StatusInternalServerError: "Internal server error",
}

// writeError answers with the status for err. Validation errors carry the
// per-field messages, everything else a fixed message.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		jsonResponse(w, status, map[string]any{
			"error":  model.ErrValidation.Error(),
			"fields": verr.Fields,
		})
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	jsonError(w, clientMessages[status], status)
}
