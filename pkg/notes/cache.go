// Package notes coordinates a user's cached note collection with the remote
// store.
//
// The [Coordinator] keeps one in-memory view of the collection and runs
// update and delete mutations optimistically: the visible collection changes
// immediately, the remote write happens after, and a failed write restores
// the pre-mutation snapshot verbatim. Creates are not optimistic because the
// store assigns the record identity.
//
// A coordinator serves one user. It is explicitly constructed with its store,
// logger, and clock so tests can drive every part of it; there is no shared
// package state.
package notes

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
)

// DefaultFreshness is how long a fetched collection is served without
// consulting the store again.
const DefaultFreshness = time.Second

// Options configures a [Coordinator]. The zero value gives a Nop logger,
// the default freshness window, and the wall clock.
type Options struct {
	Logger    zerolog.Logger
	Freshness time.Duration
	Clock     func() time.Time
}

// Coordinator mediates between callers and the store for a single user's
// notes. Safe for concurrent use.
type Coordinator struct {
	store     store.Store
	userID    models.UserID
	log       zerolog.Logger
	freshness time.Duration
	now       func() time.Time

	mu          sync.Mutex
	notes       []models.Note
	fetchedAt   time.Time
	haveFetched bool

	// generation increments on every mutation of the visible collection.
	// A fetch may only install its result if the generation it started
	// under is still current; otherwise a mutation has since changed the
	// view and the fetched data would clobber the optimistic state.
	generation uint64

	// refetchCancel stops the in-flight background reconcile, if any.
	refetchCancel context.CancelFunc
	refetchWG     sync.WaitGroup
}

// NewCoordinator returns a coordinator for userID's notes backed by st.
func NewCoordinator(st store.Store, userID models.UserID, opts Options) *Coordinator {
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	return &Coordinator{
		store:     st,
		userID:    userID,
		log:       opts.Logger,
		freshness: opts.Freshness,
		now:       opts.Clock,
	}
}

// Notes returns the user's collection, ordered most recently updated first.
// The cached view is served while it is fresher than the freshness window;
// otherwise the store is consulted synchronously.
func (c *Coordinator) Notes(ctx context.Context) ([]models.Note, error) {
	c.mu.Lock()
	if c.haveFetched && c.now().Sub(c.fetchedAt) < c.freshness {
		cached := cloneNotes(c.notes)
		c.mu.Unlock()
		return cached, nil
	}
	gen := c.generation
	c.mu.Unlock()

	fetched, err := c.store.ListNotes(ctx, c.userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.install(fetched)
	}
	// If a mutation won the race, the fetched data is already out of date;
	// the caller still gets a consistent snapshot of what was read.
	return cloneNotes(fetched), nil
}

// Create persists a new note and refreshes the collection. There is no
// optimistic phase: the caller only sees the note once the store has
// assigned its identity.
func (c *Coordinator) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.UserID = c.userID
	created, err := c.store.CreateNote(ctx, note)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cancelRefetchLocked()
	c.generation++
	if c.haveFetched {
		c.notes = append([]models.Note{created.Clone()}, c.notes...)
	}
	c.fetchedAt = time.Time{} // force a fresh read next time
	c.mu.Unlock()

	c.scheduleReconcile()
	return created, nil
}

// Update applies patch to the note optimistically, then confirms it against
// the store. On failure the collection is restored to its pre-mutation state
// and the error is returned.
func (c *Coordinator) Update(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	c.mu.Lock()
	c.cancelRefetchLocked()
	c.generation++
	snapshot := cloneNotes(c.notes)
	for i := range c.notes {
		if c.notes[i].ID == id {
			patch.Apply(&c.notes[i])
			c.notes[i].UpdatedAt = c.now()
			break
		}
	}
	c.mu.Unlock()

	confirmed, err := c.store.UpdateNote(ctx, id, patch)
	if err != nil {
		c.rollback(snapshot)
		c.log.Debug().Str("note_id", id.String()).Err(err).Msg("update rolled back")
		return nil, err
	}

	c.mu.Lock()
	c.generation++
	for i := range c.notes {
		if c.notes[i].ID == id {
			c.notes[i] = confirmed.Clone()
			break
		}
	}
	c.fetchedAt = time.Time{}
	c.mu.Unlock()

	c.scheduleReconcile()
	return confirmed, nil
}

// Delete removes the note optimistically, then confirms against the store.
// Deleting an id the store does not know rolls the collection back to its
// prior state, which for an id that was never cached is a no-op.
func (c *Coordinator) Delete(ctx context.Context, id models.NoteID) error {
	c.mu.Lock()
	c.cancelRefetchLocked()
	c.generation++
	snapshot := cloneNotes(c.notes)
	kept := c.notes[:0]
	for _, n := range c.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.notes = kept
	c.mu.Unlock()

	if err := c.store.DeleteNote(ctx, id); err != nil {
		c.rollback(snapshot)
		c.log.Debug().Str("note_id", id.String()).Err(err).Msg("delete rolled back")
		return err
	}

	c.mu.Lock()
	c.generation++
	c.fetchedAt = time.Time{}
	c.mu.Unlock()

	c.scheduleReconcile()
	return nil
}

// Invalidate discards the freshness of the cached collection so the next
// read consults the store.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}

// Close stops any background reconcile and waits for it to finish.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.cancelRefetchLocked()
	c.mu.Unlock()
	c.refetchWG.Wait()
}

// rollback restores the collection to snapshot, exactly as captured.
func (c *Coordinator) rollback(snapshot []models.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.notes = snapshot
}

// install replaces the cached collection with fetched data. Caller holds mu.
func (c *Coordinator) install(fetched []models.Note) {
	c.notes = cloneNotes(fetched)
	c.fetchedAt = c.now()
	c.haveFetched = true
}

// cancelRefetchLocked stops the in-flight background fetch. Caller holds mu.
func (c *Coordinator) cancelRefetchLocked() {
	if c.refetchCancel != nil {
		c.refetchCancel()
		c.refetchCancel = nil
	}
}

// scheduleReconcile fetches the collection in the background and installs
// the result unless a later mutation has moved the generation on.
func (c *Coordinator) scheduleReconcile() {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.cancelRefetchLocked()
	c.refetchCancel = cancel
	gen := c.generation
	c.mu.Unlock()

	c.refetchWG.Add(1)
	go func() {
		defer c.refetchWG.Done()
		defer cancel()

		fetched, err := c.store.ListNotes(ctx, c.userID)
		if err != nil {
			if ctx.Err() == nil {
				c.log.Warn().Err(err).Msg("reconcile fetch failed")
			}
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation == gen {
			c.install(fetched)
		}
	}()
}

func cloneNotes(notes []models.Note) []models.Note {
	cloned := make([]models.Note, len(notes))
	for i := range notes {
		cloned[i] = notes[i].Clone()
	}
	return cloned
}
