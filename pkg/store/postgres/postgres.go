// Package postgres implements [store.Store] on PostgreSQL using GORM.
//
// It exists for deployments that prefer a relational backend with ACID
// writes over the hosted store. The update protocol still performs the
// confirm-read even though PostgreSQL writes are immediately consistent,
// so callers observe identical behavior across backends.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
)

// Store implements the notes store on a PostgreSQL database.
type Store struct {
	db *gorm.DB
}

// New opens a connection to the database at dsn.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates or extends the notes schema. AutoMigrate only adds schema
// elements and never drops data, so it is safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.Note{})
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListNotes(ctx context.Context, userID models.UserID) ([]models.Note, error) {
	notes := []models.Note{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, &store.RemoteError{Op: "list notes", Err: err}
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &store.RemoteError{Op: "get note", Err: err}
	}
	return &note, nil
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

	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, &store.RemoteError{Op: "create note", Err: err}
	}

	stored, err := s.GetNote(ctx, note.ID)
	if err == nil && stored != nil {
		return stored, nil
	}
	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	existing, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &store.NotFoundError{ID: id}
	}

	now := time.Now().UTC()
	columns := patch.Columns()
	columns["updated_at"] = now

	err = s.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ?", id).
		Updates(columns).Error
	if err != nil {
		return nil, &store.RemoteError{Op: "update note", Err: err}
	}

	// Confirm-read: the store's view of the row wins over anything we could
	// assemble locally.
	confirmed, err := s.GetNote(ctx, id)
	if err == nil && confirmed != nil {
		return confirmed, nil
	}

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

	if err := s.db.WithContext(ctx).Delete(&models.Note{}, "id = ?", id).Error; err != nil {
		return &store.RemoteError{Op: "delete note", Err: err}
	}
	return nil
}
