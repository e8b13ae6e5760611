package notesapp

import (
	"context"
	"fmt"
)

// Main is the entry point for the notesapp application. It parses args,
// builds the application, and dispatches the command. Callable directly from
// tests without building the binary; the context enables graceful shutdown.
//
// # Environment Variables
//
//	POSTGRES_DSN     - PostgreSQL connection string (postgres backend)
//	SURREALDB_URL    - Data store WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS     - Data store namespace (default: notesapp)
//	SURREALDB_DB     - Data store database (default: notesapp)
//	SURREALDB_USER   - Data store username (default: root)
//	SURREALDB_PASS   - Data store password (default: root)
//	AUTH_URL         - Identity service base URL
//	AUTH_API_KEY     - Identity service public API key
//	OPENAI_BASE_URL  - AI service base URL (default: hosted endpoint)
//	OPENAI_API_KEY   - AI service API key
//
// A .env file in the working directory is loaded before the environment is
// read.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
