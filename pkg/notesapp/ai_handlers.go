package notesapp

import (
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/suryansh924/NotesApp-AI/pkg/ai"
)

// maxAudioUpload bounds transcription uploads at 25 MB, the service's own
// file size limit.
const maxAudioUpload = 25 << 20

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	var req generateRequest
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

	respondJSON(w, http.StatusOK, map[string]string{"content": content})
}

type templateRequest struct {
	Request string `json:"request"`
}

func (a *App) handleTemplate(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Request == "" {
		respondError(w, http.StatusBadRequest, "Request must not be empty")
		return
	}

	content, err := a.ai.Template(r.Context(), req.Request)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"content": content})
}

type summarizeRequest struct {
	Text string `json:"text"`
}

func (a *App) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Too-short text produces useless summaries; refuse it here rather than
	// burning a service call. Exactly the minimum length is allowed.
	if utf8.RuneCountInString(req.Text) < ai.MinSummarizeLength {
		respondError(w, http.StatusUnprocessableEntity, "Text is too short to summarize")
		return
	}

	summary, err := a.ai.Summarize(r.Context(), req.Text)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (a *App) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	text, err := a.ai.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		a.respondOperationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}
