// Package memory implements [store.Store] with an in-process map.
//
// It backs unit tests and local development where no database is running.
// The implementation follows the same update protocol as the remote
// backends so tests exercise the real contract, including the distinction
// between NotFound and transport errors (the latter never occur here).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
)

// Store holds notes in memory, keyed by note ID. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	notes map[models.NoteID]models.Note

	// now is swappable so tests can control timestamps.
	now func() time.Time
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		notes: make(map[models.NoteID]models.Note),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source. Test use only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Migrate(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) ListNotes(ctx context.Context, userID models.UserID) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := []models.Note{}
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, n.Clone())
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, id models.NoteID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	clone := n.Clone()
	return &clone, nil
}

func (s *Store) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = models.NewNoteID()
	}
	now := s.now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = note.CreatedAt
	}
	if note.Tags == nil {
		note.Tags = models.StringList{}
	}

	s.notes[note.ID] = note.Clone()
	stored := s.notes[note.ID].Clone()
	return &stored, nil
}

func (s *Store) UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[id]
	if !ok {
		return nil, &store.NotFoundError{ID: id}
	}

	updated := existing.Clone()
	patch.Apply(&updated)
	updated.UpdatedAt = s.now()
	s.notes[id] = updated.Clone()

	result := updated.Clone()
	return &result, nil
}

func (s *Store) DeleteNote(ctx context.Context, id models.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return &store.NotFoundError{ID: id}
	}
	delete(s.notes, id)
	return nil
}
