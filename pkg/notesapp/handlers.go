package notesapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/suryansh924/NotesApp-AI/pkg/ai"
	"github.com/suryansh924/NotesApp-AI/pkg/auth"
	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends a standardized JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondOperationError maps the error taxonomy onto HTTP statuses: missing
// records are 404, identity failures 401, AI service failures 502, and
// anything else 500. The server keeps serving after any of these.
func (a *App) respondOperationError(w http.ResponseWriter, err error) {
	var authErr *auth.Error
	var svcErr *ai.ServiceError
	switch {
	case store.IsNotFound(err):
		respondError(w, http.StatusNotFound, "Note not found")
	case errors.As(err, &authErr):
		respondError(w, http.StatusUnauthorized, authErr.Error())
	case errors.As(err, &svcErr):
		respondError(w, http.StatusBadGateway, svcErr.Error())
	default:
		a.log.Error().Err(err).Msg("operation failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// requireUser resolves the request's bearer token to a user, writing a 401
// and returning false when the request is not authenticated.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := bearerToken(r)
	if token == "" {
		respondError(w, http.StatusUnauthorized, "Missing bearer token")
		return nil, false
	}
	user, err := a.auth.UserFromToken(r.Context(), token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}
	return user, true
}

// handleHealth reports service liveness and the active backend.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": a.config.Backend,
	})
}

// Note handlers

func (a *App) handleListNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	notes, err := a.coordinator(user.ID).Notes(r.Context())
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// createNoteRequest carries the fields of a new note.
type createNoteRequest struct {
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      models.StringList `json:"tags"`
	IsPrivate bool              `json:"isPrivate"`
}

func (a *App) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	note := &models.Note{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		IsPrivate: req.IsPrivate,
	}
	created, err := a.coordinator(user.ID).Create(r.Context(), note)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (a *App) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, err := models.ParseNoteID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var patch models.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := a.coordinator(user.ID).Update(r.Context(), id, patch)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (a *App) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id, err := models.ParseNoteID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := a.coordinator(user.ID).Delete(r.Context(), id); err != nil {
		a.respondOperationError(w, err)
		return
	}

	// Echo the deleted ID so clients can reconcile their own state.
	respondJSON(w, http.StatusOK, map[string]models.NoteID{"id": id})
}

// composeNoteRequest asks for AI-generated content saved directly as a note.
type composeNoteRequest struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// handleComposeNote generates content for the prompt and funnels it into the
// regular note creation path.
func (a *App) handleComposeNote(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var req composeNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "Prompt must not be empty")
		return
	}

	content, err := a.ai.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	title := req.Title
	if title == "" {
		title = "Generated note"
	}
	created, err := a.coordinator(user.ID).Create(r.Context(), &models.Note{
		Title:   title,
		Content: content,
	})
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}
