// Package surreal implements [store.Store] against the hosted data store
// using the surrealdb.go SDK with the surrealcbor codec.
//
// # Why CBOR
//
// The hosted store speaks CBOR internally. Using the surrealcbor codec gives
// full control over marshaling, which matters for three types that default Go
// marshaling gets wrong on this connection: time.Time (must be the store's
// native datetime), typed IDs (must be RecordIDs, not bare strings), and
// optional fields. The connection is therefore configured manually with the
// codec instead of going through the convenience URL constructor.
//
// # Query safety
//
// Every query is parameterized ($param syntax). Typed IDs marshal to
// RecordIDs automatically, so no query ever interpolates a user-provided
// value into the query string.
//
// # Write acknowledgment
//
// The store's write acknowledgment is not trusted to reflect the final row,
// which is why UpdateNote re-reads the record after the merge and treats
// that read as the authority. See the [store] package documentation for the
// full fallback chain.
package surreal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
)

// Store is the hosted data store client.
type Store struct {
	db       *surrealdb.DB
	ns       string
	database string
}

// Config carries the hosted store connection settings.
type Config struct {
	URL       string // websocket endpoint, e.g. ws://localhost:8000/rpc
	Namespace string
	Database  string
	Username  string
	Password  string
}

// New connects to the hosted store and selects the configured
// namespace/database.
func New(ctx context.Context, cfg Config) (*Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse store URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// The custom codec is what makes time.Time and RecordID round-trip
	// correctly; without it the store rejects datetimes.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, &store.RemoteError{Op: "connect", Err: err}
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			return nil, &store.RemoteError{Op: "signin", Err: err}
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, &store.RemoteError{Op: "use", Err: err}
	}

	return &Store{db: db, ns: cfg.Namespace, database: cfg.Database}, nil
}

// Migrate is a no-op: the hosted store is schema-flexible and creates the
// notes table when the first record is inserted.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// Close closes the store connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// isMissingRecord recognizes the SDK's select-on-absent-record failures,
// which surface as unmarshal-shaped errors rather than a sentinel.
func isMissingRecord(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Expected a single or multiple results but got 0") ||
		strings.Contains(msg, "cannot unmarshal array into Go value")
}

func (s *Store) ListNotes(ctx context.Context, userID models.UserID) ([]models.Note, error) {
	query := "SELECT * FROM notes WHERE user_id = $user ORDER BY updatedAt DESC"
	params := map[string]any{
		"user": userID.RecordID(),
	}
	result, err := surrealdb.Query[[]models.Note](ctx, s.db, query, params)
	if err != nil {
		return nil, &store.RemoteError{Op: "list notes", Err: err}
	}

	notes := []models.Note{}
	if result != nil && len(*result) > 0 {
		notes = append(notes, (*result)[0].Result...)
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	note, err := surrealdb.Select[models.Note](ctx, s.db, id.RecordID())
	if err != nil {
		if isMissingRecord(err) {
			return nil, nil
		}
		return nil, &store.RemoteError{Op: "get note", Err: err}
	}
	return note, nil
}

func (s *Store) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note.ID.IsZero() {
		note.ID = models.NewNoteID()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}
	if note.Tags == nil {
		note.Tags = models.StringList{}
	}

	created, err := surrealdb.Create[models.Note](ctx, s.db, "notes", note)
	if err != nil {
		return nil, &store.RemoteError{Op: "create note", Err: err}
	}

	// Re-read so the caller sees exactly what the store persisted, including
	// any normalization it applied. The write response covers the rare case
	// where the read lands on a lagging view.
	stored, err := surrealdb.Select[models.Note](ctx, s.db, note.ID.RecordID())
	if err == nil && stored != nil {
		return stored, nil
	}
	if created != nil {
		return created, nil
	}
	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	// Step 1: existence check. Failing here keeps NotFound distinct from
	// transport trouble and guarantees nothing is written for a bogus ID.
	existing, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &store.NotFoundError{ID: id}
	}

	now := time.Now().UTC()
	merge := map[string]any{
		"updatedAt": now,
	}
	if patch.Title != nil {
		merge["title"] = *patch.Title
	}
	if patch.Content != nil {
		merge["content"] = *patch.Content
	}
	if patch.Tags != nil {
		merge["tags"] = *patch.Tags
	}
	if patch.IsPrivate != nil {
		merge["isPrivate"] = *patch.IsPrivate
	}

	// Step 2: the write itself.
	query := "UPDATE $id MERGE $patch RETURN AFTER"
	params := map[string]any{
		"id":    id.RecordID(),
		"patch": merge,
	}
	result, err := surrealdb.Query[[]models.Note](ctx, s.db, query, params)
	if err != nil {
		return nil, &store.RemoteError{Op: "update note", Err: err}
	}

	// Step 3: confirm-read. The write acknowledgment above is not trusted to
	// reflect the final row, so a successful re-read wins.
	confirmed, err := surrealdb.Select[models.Note](ctx, s.db, id.RecordID())
	if err == nil && confirmed != nil {
		return confirmed, nil
	}

	// Fallback 1: the write-response row.
	if result != nil && len(*result) > 0 && len((*result)[0].Result) > 0 {
		row := (*result)[0].Result[0]
		return &row, nil
	}

	// Fallback 2: synthesize from what we know. Derived fields may be
	// slightly stale but the caller still gets a Note-shaped result.
	synthesized := existing.Clone()
	patch.Apply(&synthesized)
	synthesized.UpdatedAt = now
	return &synthesized, nil
}

func (s *Store) DeleteNote(ctx context.Context, id models.NoteID) error {
	existing, err := s.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &store.NotFoundError{ID: id}
	}

	if _, err := surrealdb.Delete[models.Note](ctx, s.db, id.RecordID()); err != nil {
		return &store.RemoteError{Op: "delete note", Err: err}
	}
	return nil
}
