package notesapp_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryansh924/NotesApp-AI/pkg/ai"
	"github.com/suryansh924/NotesApp-AI/pkg/auth"
	"github.com/suryansh924/NotesApp-AI/pkg/client"
	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/notesapp"
	"github.com/suryansh924/NotesApp-AI/pkg/store/memory"
)

// fakeAuth is a process-local stand-in for the identity service.
type fakeAuth struct {
	passwords map[string]string       // email → password
	tokens    map[string]*models.User // token → user
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		passwords: make(map[string]string),
		tokens:    make(map[string]*models.User),
	}
}

func (f *fakeAuth) session(email string) *auth.Session {
	token := "tok-" + email
	user, ok := f.tokens[token]
	if !ok {
		user = &models.User{ID: models.NewUserID(), Email: email}
		f.tokens[token] = user
	}
	return &auth.Session{AccessToken: token, RefreshToken: "refresh-" + email, User: *user}
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if f.passwords[email] != password {
		return nil, &auth.Error{Op: "sign in", Message: "Invalid login credentials"}
	}
	return f.session(email), nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	if _, exists := f.passwords[email]; exists {
		return nil, &auth.Error{Op: "sign up", Message: "User already registered"}
	}
	f.passwords[email] = password
	return f.session(email), nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return nil }

func (f *fakeAuth) Refresh(ctx context.Context) (*auth.Session, error) {
	return nil, &auth.Error{Op: "refresh", Message: "no session to refresh"}
}

func (f *fakeAuth) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	user, ok := f.tokens[token]
	if !ok {
		return nil, &auth.Error{Op: "get user", Message: "invalid token"}
	}
	return user, nil
}

func (f *fakeAuth) OAuthRedirectURL(provider, redirectTo string) string {
	return "https://id.example.com/authorize?provider=" + provider
}

func (f *fakeAuth) Close() {}

// fakeAI scripts the AI content service.
type fakeAI struct {
	generateErr error
}

func (f *fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return "## Generated\n\n" + prompt, nil
}

func (f *fakeAI) Template(ctx context.Context, request string) (string, error) {
	return "# Template: " + request, nil
}

func (f *fakeAI) Summarize(ctx context.Context, text string) (string, error) {
	return "summary of text", nil
}

func (f *fakeAI) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("transcript of %d bytes", len(data)), nil
}

type testEnv struct {
	server *httptest.Server
	client *client.Client
	ai     *fakeAI
	auth   *fakeAuth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authn := newFakeAuth()
	aiSvc := &fakeAI{}
	app := notesapp.NewApp(
		&notesapp.Config{Backend: "memory", ServerPort: "0"},
		memory.New(),
		authn,
		aiSvc,
		zerolog.Nop(),
	)
	t.Cleanup(func() { _ = app.Close() })

	server := httptest.NewServer(app.Router())
	t.Cleanup(server.Close)

	return &testEnv{
		server: server,
		client: client.NewClient(server.URL),
		ai:     aiSvc,
		auth:   authn,
	}
}

// signUp registers a fresh user and leaves the client authenticated.
func (e *testEnv) signUp(t *testing.T, email string) *client.AuthResponse {
	t.Helper()
	resp, err := e.client.SignUp(context.Background(), email, "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	health, err := env.client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("SignUpAndMe", func(t *testing.T) {
		resp := env.signUp(t, "a@example.com")
		assert.Equal(t, "a@example.com", resp.User.Email)

		me, err := env.client.GetCurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, me.ID)
	})

	t.Run("SignInWrongPassword", func(t *testing.T) {
		c := client.NewClient(env.server.URL)
		_, err := c.SignIn(ctx, "a@example.com", "wrong")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=401")
	})

	t.Run("MeWithoutToken", func(t *testing.T) {
		c := client.NewClient(env.server.URL)
		_, err := c.GetCurrentUser(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=401")
	})
}

func TestNotesCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "notes@example.com")

	created, err := env.client.CreateNote(ctx, client.CreateNoteRequest{
		Title:     "Groceries",
		Content:   "- eggs\n- milk",
		Tags:      models.StringList{"errands"},
		IsPrivate: true,
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Groceries", created.Title)
	assert.True(t, created.IsPrivate)
	assert.False(t, created.CreatedAt.IsZero())

	notes, err := env.client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, created.ID, notes[0].ID)

	title := "Groceries (updated)"
	updated, err := env.client.UpdateNote(ctx, created.ID, models.NotePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Groceries (updated)", updated.Title)
	assert.Equal(t, "- eggs\n- milk", updated.Content, "unpatched fields keep their values")

	deletedID, err := env.client.DeleteNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deletedID)

	_, err = env.client.UpdateNote(ctx, created.ID, models.NotePatch{Title: &title})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestNotesScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceClient := client.NewClient(env.server.URL)
	_, err := aliceClient.SignUp(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)

	bobClient := client.NewClient(env.server.URL)
	_, err = bobClient.SignUp(ctx, "bob@example.com", "hunter2")
	require.NoError(t, err)

	_, err = aliceClient.CreateNote(ctx, client.CreateNoteRequest{Title: "alice's note"})
	require.NoError(t, err)

	bobNotes, err := bobClient.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, bobNotes)
}

func TestNotesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.client.ListNotes(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")

	_, err = env.client.CreateNote(ctx, client.CreateNoteRequest{Title: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "gen@example.com")

	content, err := env.client.Generate(ctx, "meeting notes")
	require.NoError(t, err)
	assert.Equal(t, "## Generated\n\nmeeting notes", content)

	_, err = env.client.Generate(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestGenerateServiceFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "gen@example.com")

	env.ai.generateErr = &ai.ServiceError{Op: "generate", Message: "rate limited"}
	_, err := env.client.Generate(ctx, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=502")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "tpl@example.com")

	content, err := env.client.Template(ctx, "habit tracker")
	require.NoError(t, err)
	assert.Equal(t, "# Template: habit tracker", content)
}

func TestSummarizeLengthGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "sum@example.com")

	t.Run("TooShort", func(t *testing.T) {
		_, err := env.client.Summarize(ctx, strings.Repeat("x", ai.MinSummarizeLength-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=422")
	})

	t.Run("ExactlyMinimum", func(t *testing.T) {
		summary, err := env.client.Summarize(ctx, strings.Repeat("x", ai.MinSummarizeLength))
		require.NoError(t, err)
		assert.Equal(t, "summary of text", summary)
	})

	t.Run("MultibyteRunesCountAsOne", func(t *testing.T) {
		// 200 runes even though far more bytes.
		summary, err := env.client.Summarize(ctx, strings.Repeat("ü", ai.MinSummarizeLength))
		require.NoError(t, err)
		assert.Equal(t, "summary of text", summary)
	})
}

func TestTranscribe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "voice@example.com")

	text, err := env.client.Transcribe(ctx, "memo.webm", strings.NewReader("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, "transcript of 10 bytes", text)
}

func TestComposeNote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signUp(t, "compose@example.com")

	note, err := env.client.ComposeNote(ctx, client.ComposeNoteRequest{
		Title:  "Standup",
		Prompt: "daily standup notes",
	})
	require.NoError(t, err)
	assert.Equal(t, "Standup", note.Title)
	assert.Equal(t, "## Generated\n\ndaily standup notes", note.Content)

	// The composed note went through the normal create path.
	notes, err := env.client.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
}

func TestOAuthURL(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/auth/oauth/url?provider=google")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "provider=google")
}
