// Package ai is a client for the AI content service used to generate,
// summarize, and transcribe note content.
//
// The client is a thin HTTP wrapper: no retries, no streaming, no response
// caching. Cancellation happens through the caller's context, bounded by the
// client's request timeout.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultBaseURL is the hosted AI service endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// MinSummarizeLength is the minimum text length, in runes, worth
// summarizing. Enforced at the request boundary, not inside Summarize.
const MinSummarizeLength = 200

const defaultTimeout = 30 * time.Second

const (
	generateModel   = "gpt-3.5-turbo"
	templateModel   = "gpt-4-turbo"
	transcribeModel = "whisper-1"
)

const generateSystemPrompt = `You are a helpful assistant specialized in creating well-structured notes.
Format your responses with clear headings, bullet points, and other Markdown formatting to enhance readability.
Use appropriate hierarchy with headings (## for main sections, ### for subsections).
Use lists (bullet points or numbered) for sequential information or items.
Emphasize key points with **bold** or *italic* text when appropriate.
Add code blocks for any technical content with proper syntax highlighting.
Keep paragraphs concise and focused on one idea.
Include a brief summary at the beginning when appropriate.`

const templateSystemPrompt = `You are a productivity expert specialized in creating detailed, well-structured templates and roadmaps.

Create templates that work with basic formatting only (no tables or checkboxes). Use these formatting elements only:
- Headings (# ## ###)
- Bold text (**text**)
- Italic text (*text*)
- Bullet lists (- item)
- Numbered lists (1. item)
- Block quotes (> text)
- Code blocks (` + "```code```" + `)

For tracking elements that would normally use checkboxes, use:
- [ ] Not completed (as plain text, not expecting it to be interactive)
- [x] Completed (as plain text, not expecting it to be interactive)

For data organization that would normally use tables, use:
- Hierarchical bullet points
- Clear headings to separate columns
- Consistent indentation for visual structure

Focus on the content organization and create practical, actionable templates for:
- Habit tracking
- Goal setting
- Project management
- Knowledge organization
- Time blocking
- Personal development

Include clear instructions at the beginning explaining how to use the template.`

const summarizePromptFormat = "Please provide a concise summary of the following text, highlighting the key points and maintaining the main structure. Format the summary with appropriate Markdown to enhance readability:\n\n%s"

// ServiceError is a failure reported by, or en route to, the AI service.
// Message carries the upstream error text when the service supplied one.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ai %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client talks to the AI content service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a client for the service at baseURL. An empty baseURL
// selects the hosted endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate produces Markdown-structured note content for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, "generate", generateModel, generateSystemPrompt, prompt)
}

// Template produces a plain-formatting productivity template for request.
// It runs on the larger model because template structure benefits from it.
func (c *Client) Template(ctx context.Context, request string) (string, error) {
	return c.chat(ctx, "template", templateModel, templateSystemPrompt, request)
}

// Summarize produces a Markdown summary of text. Length gating is the
// caller's concern; see MinSummarizeLength.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.chat(ctx, "summarize", generateModel, generateSystemPrompt,
		fmt.Sprintf(summarizePromptFormat, text))
}

func (c *Client) chat(ctx context.Context, op, model, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", &ServiceError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ServiceError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	// The service reports failures in the body, not only via status codes.
	if parsed.Error != nil {
		return "", &ServiceError{Op: op, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", &ServiceError{Op: op, Message: "response contained no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}

type transcribeResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe sends the audio stream to the transcription endpoint and
// returns the recognized text. filename is advisory; the service uses its
// extension to sniff the container format.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	if err := form.WriteField("model", transcribeModel); err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	if err := form.Close(); err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Op: "transcribe", Err: err}
	}
	defer resp.Body.Close()

	var parsed transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ServiceError{Op: "transcribe", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if parsed.Error != nil {
		return "", &ServiceError{Op: "transcribe", Message: parsed.Error.Message}
	}
	return parsed.Text, nil
}
