package notesapp

// Command represents a discrete application operation with its specific
// configuration. Each implementation carries the options for its operation;
// [Main] routes parsed commands to the matching App method.
type Command interface {
	// Name returns the command identifier used for routing.
	Name() string
}

// MigrateCommand initializes or updates the data store schema to match the
// application's data model. Safe to run repeatedly: only missing schema
// elements are created, existing data is preserved.
//
// The migration behavior depends on the backend:
//   - postgres: GORM AutoMigrate creates the notes table and indexes
//   - surreal: no-op, the store creates tables on first write
//   - memory: no-op
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand starts the HTTP server that serves the notes API: auth proxying
// to the identity service, note CRUD through per-user coordinators, and AI
// content operations. The server runs until the context is cancelled and
// then shuts down gracefully.
type RunCommand struct{}

func (c *RunCommand) Name() string {
	return "run"
}
