// Package auth is a client for the hosted identity service (a GoTrue-style
// HTTP API): password sign-in, sign-up, OAuth authorization, token refresh,
// and session-change notifications.
//
// The [Provider] holds at most one current session. Components that need to
// react to sign-in state changes subscribe to the provider's event stream
// rather than polling Session.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
)

// Error is a failure reported by, or en route to, the identity service.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Session is an authenticated session with the identity service.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         models.User `json:"user"`
}

// EventType identifies a session state transition.
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event is delivered to subscribers when the session changes. Session is nil
// for EventSignedOut.
type Event struct {
	Type    EventType
	Session *Session
}

const defaultTimeout = 15 * time.Second

// Provider is the identity service client. Safe for concurrent use.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	session     *Session
	subscribers map[int]chan Event
	nextSubID   int
	closed      bool
}

// NewProvider returns a provider for the identity service at baseURL
// (the service root, without a trailing slash). apiKey is the project's
// public API key, sent with every request.
func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		subscribers: make(map[int]chan Event),
	}
}

// Session returns the current session, or nil when signed out.
func (p *Provider) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Subscribe registers for session-change events. The returned function
// removes the subscription; the channel closes on unsubscribe or when the
// provider itself is closed. A slow consumer drops events rather than
// blocking the provider.
func (p *Provider) Subscribe() (<-chan Event, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Event, 8)
	if p.closed {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch

	unsubscribe := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if sub, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Close drops the current session and closes all subscriber channels.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.session = nil
	for id, ch := range p.subscribers {
		delete(p.subscribers, id)
		close(ch)
	}
}

// setSession installs the session and notifies subscribers.
func (p *Provider) setSession(s *Session, event EventType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.session = s
	for _, ch := range p.subscribers {
		select {
		case ch <- Event{Type: event, Session: s}:
		default:
		}
	}
}

// SignIn exchanges email and password for a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := p.passwordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	p.setSession(session, EventSignedIn)
	return session, nil
}

// signupResponse covers both shapes the signup endpoint produces: a full
// session when auto-confirm is on, or a bare user when it is off.
type signupResponse struct {
	Session
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignUp creates an account and returns its session. When the service
// creates the account without issuing a session, SignUp immediately signs
// the account in with the same credentials instead of leaving it pending.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp signupResponse
	err := p.do(ctx, "sign up", http.MethodPost, "/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.AccessToken != "" {
		session := resp.Session
		p.setSession(&session, EventSignedIn)
		return &session, nil
	}

	// Account exists but no session was issued; complete the flow with a
	// password sign-in.
	return p.SignIn(ctx, email, password)
}

// OAuthRedirectURL returns the URL to send the browser to for an OAuth
// sign-in with the named provider ("google"). The identity service redirects
// back to redirectTo when the flow completes.
func (p *Provider) OAuthRedirectURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return p.baseURL + "/authorize?" + q.Encode()
}

// SignOut revokes the current session. Signing out while already signed out
// is a no-op.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()
	if session == nil {
		return nil
	}

	if err := p.do(ctx, "sign out", http.MethodPost, "/logout", session.AccessToken, nil, nil); err != nil {
		return err
	}
	p.setSession(nil, EventSignedOut)
	return nil
}

// Refresh exchanges the current refresh token for a new session.
func (p *Provider) Refresh(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()
	if session == nil {
		return nil, &Error{Op: "refresh", Message: "no session to refresh"}
	}

	var refreshed Session
	err := p.do(ctx, "refresh", http.MethodPost, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": session.RefreshToken,
	}, &refreshed)
	if err != nil {
		return nil, err
	}
	p.setSession(&refreshed, EventTokenRefreshed)
	return &refreshed, nil
}

// UserFromToken resolves an access token to the user it belongs to.
func (p *Provider) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := p.do(ctx, "get user", http.MethodGet, "/user", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *Provider) passwordGrant(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := p.do(ctx, "sign in", http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// errorResponse covers the shapes the service uses for failures.
type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	}
	return ""
}

func (p *Provider) do(ctx context.Context, op, method, path, token string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var upstream errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&upstream)
		msg := upstream.text()
		if msg == "" {
			msg = resp.Status
		}
		return &Error{Op: op, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}
