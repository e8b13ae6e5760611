package notesapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/suryansh924/NotesApp-AI/pkg/ai"
	"github.com/suryansh924/NotesApp-AI/pkg/auth"
	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/notes"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
	"github.com/suryansh924/NotesApp-AI/pkg/store/memory"
	"github.com/suryansh924/NotesApp-AI/pkg/store/postgres"
	"github.com/suryansh924/NotesApp-AI/pkg/store/surreal"
)

// Config holds application configuration.
type Config struct {
	// Backend selects the data store: "surreal", "postgres", or "memory".
	Backend string

	// Data store configuration
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	// Identity service configuration
	AuthURL    string
	AuthAPIKey string

	// AI content service configuration
	AIBaseURL string
	AIAPIKey  string

	// Server configuration
	ServerPort string
}

// Authenticator is the slice of the identity provider the HTTP layer needs.
// *auth.Provider implements it; tests substitute a local fake.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) (*auth.Session, error)
	UserFromToken(ctx context.Context, token string) (*models.User, error)
	OAuthRedirectURL(provider, redirectTo string) string
	Close()
}

// AIService is the slice of the AI content client the HTTP layer needs.
type AIService interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Template(ctx context.Context, request string) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// App holds the application state: the store, the external service clients,
// and one note coordinator per authenticated user.
type App struct {
	store  store.Store
	auth   Authenticator
	ai     AIService
	config *Config
	log    zerolog.Logger

	mu           sync.Mutex
	coordinators map[models.UserID]*notes.Coordinator
}

// New creates an application instance, connecting to the backend the config
// selects.
func New(ctx context.Context, config *Config) (*App, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var appStore store.Store
	var err error
	switch config.Backend {
	case "surreal":
		appStore, err = surreal.New(ctx, surreal.Config{
			URL:       config.SurrealDBURL,
			Namespace: config.SurrealDBNS,
			Database:  config.SurrealDBDB,
			Username:  config.SurrealDBUser,
			Password:  config.SurrealDBPass,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to data store: %w", err)
		}
		logger.Info().Str("backend", "surreal").Msg("connected to data store")
	case "postgres":
		appStore, err = postgres.New(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info().Str("backend", "postgres").Msg("connected to data store")
	case "memory":
		appStore = memory.New()
		logger.Info().Str("backend", "memory").Msg("using in-memory store")
	default:
		return nil, fmt.Errorf("unknown backend: %q", config.Backend)
	}

	provider := auth.NewProvider(config.AuthURL, config.AuthAPIKey)
	aiClient := ai.NewClient(config.AIBaseURL, config.AIAPIKey)

	return NewApp(config, appStore, provider, aiClient, logger), nil
}

// NewApp assembles an application from already-constructed components.
// Used by New and by tests that substitute fakes.
func NewApp(config *Config, st store.Store, authn Authenticator, aiSvc AIService, logger zerolog.Logger) *App {
	return &App{
		store:        st,
		auth:         authn,
		ai:           aiSvc,
		config:       config,
		log:          logger,
		coordinators: make(map[models.UserID]*notes.Coordinator),
	}
}

// Close releases the application's resources.
func (a *App) Close() error {
	a.mu.Lock()
	coordinators := a.coordinators
	a.coordinators = make(map[models.UserID]*notes.Coordinator)
	a.mu.Unlock()

	for _, c := range coordinators {
		c.Close()
	}
	if a.auth != nil {
		a.auth.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Store returns the underlying store (useful for testing)
func (a *App) Store() store.Store {
	return a.store
}

// coordinator returns the note coordinator for userID, creating it on first
// use.
func (a *App) coordinator(userID models.UserID) *notes.Coordinator {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.coordinators[userID]
	if !ok {
		c = notes.NewCoordinator(a.store, userID, notes.Options{
			Logger: a.log.With().Str("component", "coordinator").Logger(),
		})
		a.coordinators[userID] = c
	}
	return c
}

// getEnv retrieves an environment variable value with a fallback default.
// Empty values are treated the same as unset ones.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
