// Package client provides a typed HTTP client for the notes API.
//
// It mirrors the server's endpoint structure with strongly-typed methods,
// sharing the [github.com/suryansh924/NotesApp-AI/pkg/models] entities so
// request and response shapes stay consistent across the API boundary.
// Authentication tokens are captured on sign-in and attached to every
// subsequent request.
//
// Client instances are safe for concurrent use once the auth token is set.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
)

// Client provides typed access to the notes REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates a client for the API at baseURL (protocol and host, no
// trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthToken sets the bearer token attached to subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	return c.httpClient.Do(req)
}

func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the health status of the server.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Note management

// ListNotes retrieves the authenticated user's notes, most recently
// updated first.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/notes", nil)
	if err != nil {
		return nil, err
	}

	var result []models.Note
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateNoteRequest carries the fields of a new note.
type CreateNoteRequest struct {
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Tags      models.StringList `json:"tags"`
	IsPrivate bool              `json:"isPrivate"`
}

// CreateNote creates a new note for the authenticated user.
func (c *Client) CreateNote(ctx context.Context, req CreateNoteRequest) (*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/notes", req)
	if err != nil {
		return nil, err
	}

	var result models.Note
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateNote applies a partial update to an existing note. Only the fields
// set on the patch change; the rest keep their stored values.
func (c *Client) UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%s", id), patch)
	if err != nil {
		return nil, err
	}

	var result models.Note
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteNoteResponse echoes the deleted note's ID.
type DeleteNoteResponse struct {
	ID models.NoteID `json:"id"`
}

// DeleteNote deletes a note and returns the deleted ID.
func (c *Client) DeleteNote(ctx context.Context, id models.NoteID) (models.NoteID, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%s", id), nil)
	if err != nil {
		return models.NoteID{}, err
	}

	var result DeleteNoteResponse
	if err := decodeResponse(resp, &result); err != nil {
		return models.NoteID{}, err
	}

	return result.ID, nil
}

// AI content

// GenerateRequest asks the AI service for note content.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// ContentResponse carries generated Markdown content.
type ContentResponse struct {
	Content string `json:"content"`
}

// Generate produces Markdown note content for a prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/ai/generate", GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	var result ContentResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Content, nil
}

// TemplateRequest asks for a productivity template.
type TemplateRequest struct {
	Request string `json:"request"`
}

// Template produces a productivity template for a request.
func (c *Client) Template(ctx context.Context, request string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/ai/template", TemplateRequest{Request: request})
	if err != nil {
		return "", err
	}

	var result ContentResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Content, nil
}

// SummarizeRequest carries text to be summarized.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// SummarizeResponse carries the produced summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize produces a Markdown summary of text. The server refuses text
// shorter than the minimum summarizable length.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/ai/summarize", SummarizeRequest{Text: text})
	if err != nil {
		return "", err
	}

	var result SummarizeResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Summary, nil
}

// TranscribeResponse carries recognized speech.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads an audio stream and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to buffer audio: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/transcribe", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	var result TranscribeResponse
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Text, nil
}

// ComposeNoteRequest asks the server to generate content and save it as a
// new note in one step.
type ComposeNoteRequest struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// ComposeNote generates content for prompt and saves it as a new note.
func (c *Client) ComposeNote(ctx context.Context, req ComposeNoteRequest) (*models.Note, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/notes/compose", req)
	if err != nil {
		return nil, err
	}

	var result models.Note
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
