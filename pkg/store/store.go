// Package store provides the note persistence abstraction and its error
// taxonomy.
//
// The [Store] interface is the application's view of the hosted data store.
// Three implementations exist:
//
//   - [github.com/suryansh924/NotesApp-AI/pkg/store/surreal.Store]: the hosted
//     backend, reached over the surrealdb.go SDK with the surrealcbor codec.
//     This is the production configuration.
//   - [github.com/suryansh924/NotesApp-AI/pkg/store/postgres.Store]: a
//     self-hosted PostgreSQL backend via GORM for deployments that do not use
//     the hosted store.
//   - [github.com/suryansh924/NotesApp-AI/pkg/store/memory.Store]: a
//     process-local backend for development mode and unit tests.
//
// # Update protocol
//
// UpdateNote and DeleteNote follow a deliberate existence-check → write →
// confirm-read protocol. The hosted store's write acknowledgment has not
// proven trustworthy enough to treat as the final row, so the confirm-read is
// the authority on the post-update state. When the confirm-read itself fails
// the implementations fall back to the write-response row, and failing that
// to a locally synthesized record (the pre-update row merged with the
// requested changes). The fallbacks guarantee callers always receive a
// Note-shaped result after a successful write, at the cost of possibly stale
// derived fields — a documented weak guarantee, not an invariant. Backends
// whose write path is atomic and trusted (Postgres, memory) keep the same
// observable contract with a cheaper internal dance.
package store

import (
	"context"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
)

// Store is the persistence interface for notes.
//
// All methods accept a context for cancellation and deadlines. Failures are
// reported as *RemoteError or *NotFoundError; no other error kinds escape an
// implementation.
type Store interface {
	// ListNotes returns every note owned by userID, ordered by UpdatedAt
	// descending. It returns an empty slice, not nil, when the user has no
	// notes.
	ListNotes(ctx context.Context, userID models.UserID) ([]models.Note, error)

	// GetNote retrieves a note by ID. It returns nil without error when no
	// note exists with that ID; errors are reserved for transport failures.
	GetNote(ctx context.Context, id models.NoteID) (*models.Note, error)

	// CreateNote persists a new note and returns the stored record. A zero ID
	// is assigned server-side; zero timestamps are set to now, with
	// CreatedAt == UpdatedAt on the stored row. The returned record is
	// re-read from the backend when possible so the caller sees exactly what
	// the store holds.
	CreateNote(ctx context.Context, note *models.Note) (*models.Note, error)

	// UpdateNote applies a partial update plus a refreshed UpdatedAt to the
	// note with the given ID, following the confirm-read protocol described
	// in the package documentation. It fails with *NotFoundError when no such
	// note exists, before anything is written.
	UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error)

	// DeleteNote removes the note with the given ID. It fails with
	// *NotFoundError when no such note exists; the check happens before the
	// delete is issued.
	DeleteNote(ctx context.Context, id models.NoteID) error

	// Migrate prepares backend schema. Schema-flexible backends treat this as
	// a no-op.
	Migrate(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
