package notes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
	"github.com/suryansh924/NotesApp-AI/pkg/store"
	"github.com/suryansh924/NotesApp-AI/pkg/store/memory"
)

// hookedStore wraps the in-memory store so tests can fail calls and observe
// or gate fetches.
type hookedStore struct {
	*memory.Store

	mu         sync.Mutex
	updateErr  error
	deleteErr  error
	listCalls  atomic.Int64
	listGate   chan struct{} // when set, ListNotes blocks until it closes
	gateListed chan struct{} // signalled once a gated ListNotes has started
}

func newHookedStore() *hookedStore {
	return &hookedStore{Store: memory.New()}
}

func (h *hookedStore) setUpdateErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updateErr = err
}

func (h *hookedStore) setDeleteErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleteErr = err
}

func (h *hookedStore) ListNotes(ctx context.Context, userID models.UserID) ([]models.Note, error) {
	h.listCalls.Add(1)
	h.mu.Lock()
	gate, started := h.listGate, h.gateListed
	h.mu.Unlock()
	if gate != nil {
		if started != nil {
			close(started)
			h.mu.Lock()
			h.gateListed = nil
			h.mu.Unlock()
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return h.Store.ListNotes(ctx, userID)
}

func (h *hookedStore) UpdateNote(ctx context.Context, id models.NoteID, patch models.NotePatch) (*models.Note, error) {
	h.mu.Lock()
	err := h.updateErr
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return h.Store.UpdateNote(ctx, id, patch)
}

func (h *hookedStore) DeleteNote(ctx context.Context, id models.NoteID) error {
	h.mu.Lock()
	err := h.deleteErr
	h.mu.Unlock()
	if err != nil {
		return err
	}
	return h.Store.DeleteNote(ctx, id)
}

func newTestCoordinator(t *testing.T, st store.Store, userID models.UserID) *Coordinator {
	t.Helper()
	c := NewCoordinator(st, userID, Options{})
	t.Cleanup(c.Close)
	return c
}

func seedNotes(t *testing.T, st store.Store, userID models.UserID, titles ...string) []models.Note {
	t.Helper()
	ctx := context.Background()
	var seeded []models.Note
	for _, title := range titles {
		created, err := st.CreateNote(ctx, &models.Note{
			Title:   title,
			Content: "content of " + title,
			Tags:    models.StringList{"seed"},
			UserID:  userID,
		})
		require.NoError(t, err)
		seeded = append(seeded, *created)
	}
	return seeded
}

func TestNotesMatchesStoreAfterMutations(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "a", "b", "c")

	c := newTestCoordinator(t, st, userID)

	_, err := c.Create(ctx, &models.Note{Title: "d"})
	require.NoError(t, err)

	title := "b, edited"
	_, err = c.Update(ctx, seeded[1].ID, models.NotePatch{Title: &title})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, seeded[0].ID))

	// Let reconciles finish, then force a fresh read and compare with the
	// store's own view.
	c.Close()
	c.Invalidate()

	cached, err := c.Notes(ctx)
	require.NoError(t, err)
	stored, err := st.Store.ListNotes(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, stored, cached)
}

func TestUpdateRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "a", "b")

	c := newTestCoordinator(t, st, userID)
	before, err := c.Notes(ctx)
	require.NoError(t, err)

	st.setUpdateErr(&store.RemoteError{Op: "update note", Err: errors.New("connection reset")})

	title := "must not stick"
	_, err = c.Update(ctx, seeded[0].ID, models.NotePatch{Title: &title})
	require.Error(t, err)
	var remoteErr *store.RemoteError
	assert.ErrorAs(t, err, &remoteErr)

	after, err := c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "rollback must restore the collection verbatim")
}

func TestDeleteRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "a", "b")

	c := newTestCoordinator(t, st, userID)
	before, err := c.Notes(ctx)
	require.NoError(t, err)

	st.setDeleteErr(&store.RemoteError{Op: "delete note", Err: errors.New("boom")})

	require.Error(t, c.Delete(ctx, seeded[0].ID))

	after, err := c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEmptyPatchBumpsUpdatedAtOnly(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "stable")

	c := newTestCoordinator(t, st, userID)

	first, err := c.Update(ctx, seeded[0].ID, models.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, seeded[0].Title, first.Title)
	assert.Equal(t, seeded[0].Content, first.Content)
	assert.Equal(t, seeded[0].Tags, first.Tags)
	assert.Equal(t, seeded[0].IsPrivate, first.IsPrivate)
	assert.True(t, first.UpdatedAt.After(seeded[0].UpdatedAt) || first.UpdatedAt.Equal(seeded[0].UpdatedAt))

	time.Sleep(2 * time.Millisecond)
	second, err := c.Update(ctx, seeded[0].ID, models.NotePatch{})
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestNoteIdentityStableAcrossUpdate(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "keeper")

	c := newTestCoordinator(t, st, userID)

	content := "rewritten"
	updated, err := c.Update(ctx, seeded[0].ID, models.NotePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, seeded[0].ID, updated.ID)
	assert.Equal(t, seeded[0].CreatedAt, updated.CreatedAt)
}

func TestDeleteNonexistentLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seedNotes(t, st, userID, "a", "b")

	c := newTestCoordinator(t, st, userID)
	before, err := c.Notes(ctx)
	require.NoError(t, err)

	err = c.Delete(ctx, models.NewNoteID())
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	after, err := c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFreshCollectionServedWithoutFetch(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seedNotes(t, st, userID, "a")

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}

	c := NewCoordinator(st, userID, Options{Clock: clock})
	t.Cleanup(c.Close)

	_, err := c.Notes(ctx)
	require.NoError(t, err)
	calls := st.listCalls.Load()

	// Inside the window: no new fetch.
	advance(500 * time.Millisecond)
	_, err = c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, st.listCalls.Load())

	// Past the window: fetch again.
	advance(time.Second)
	_, err = c.Notes(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls+1, st.listCalls.Load())
}

func TestStaleReconcileDoesNotClobberOptimisticState(t *testing.T) {
	ctx := context.Background()
	st := newHookedStore()
	userID := models.NewUserID()
	seeded := seedNotes(t, st, userID, "a", "b")

	c := newTestCoordinator(t, st, userID)
	_, err := c.Notes(ctx)
	require.NoError(t, err)

	// Gate the next fetch so the reconcile triggered by the first update
	// stalls mid-flight.
	gate := make(chan struct{})
	started := make(chan struct{})
	st.mu.Lock()
	st.listGate = gate
	st.gateListed = started
	st.mu.Unlock()

	title := "first edit"
	_, err = c.Update(ctx, seeded[0].ID, models.NotePatch{Title: &title})
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("reconcile fetch never started")
	}

	// A second mutation arrives while the reconcile is stalled. It cancels
	// the stalled fetch and moves the generation on.
	st.mu.Lock()
	st.listGate = nil
	st.mu.Unlock()

	title2 := "second edit"
	_, err = c.Update(ctx, seeded[1].ID, models.NotePatch{Title: &title2})
	require.NoError(t, err)

	// Release the stalled fetch; its result is for a dead generation and
	// must not be installed over the newer state.
	close(gate)
	c.Close()

	notes, err := c.Notes(ctx)
	require.NoError(t, err)
	byID := map[models.NoteID]models.Note{}
	for _, n := range notes {
		byID[n.ID] = n
	}
	assert.Equal(t, "first edit", byID[seeded[0].ID].Title)
	assert.Equal(t, "second edit", byID[seeded[1].ID].Title)
}
