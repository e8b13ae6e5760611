package notesapp

import (
	"context"
	"fmt"
)

// Migrate initializes or updates the data store schema. Safe to run multiple
// times; only missing schema elements are created.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	a.log.Info().Msg("running data store migrations")
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.log.Info().Msg("migrations completed")
	return nil
}
