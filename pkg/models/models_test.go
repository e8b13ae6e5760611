package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteJSONFieldNames(t *testing.T) {
	note := Note{
		ID:        NewNoteID(),
		Title:     "t",
		Content:   "c",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Tags:      StringList{"a"},
		IsPrivate: true,
		UserID:    NewUserID(),
	}

	encoded, err := json.Marshal(note)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &raw))

	// Timestamps and isPrivate are camelCase; the owner field alone keeps
	// its snake_case name. Existing clients depend on these exact keys.
	for _, key := range []string{"id", "title", "content", "createdAt", "updatedAt", "tags", "isPrivate", "user_id"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "userId")
	assert.NotContains(t, raw, "is_private")
}

func TestNotePatchApply(t *testing.T) {
	base := Note{
		Title:     "original",
		Content:   "body",
		Tags:      StringList{"one"},
		IsPrivate: false,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("OnlySetFieldsChange", func(t *testing.T) {
		note := base.Clone()
		title := "changed"
		NotePatch{Title: &title}.Apply(&note)

		assert.Equal(t, "changed", note.Title)
		assert.Equal(t, "body", note.Content)
		assert.Equal(t, StringList{"one"}, note.Tags)
		assert.Equal(t, base.UpdatedAt, note.UpdatedAt, "Apply leaves UpdatedAt to the caller")
	})

	t.Run("TagsAreCopied", func(t *testing.T) {
		note := base.Clone()
		tags := StringList{"two", "three"}
		NotePatch{Tags: &tags}.Apply(&note)

		tags[0] = "mutated"
		assert.Equal(t, StringList{"two", "three"}, note.Tags)
	})

	t.Run("EmptyPatch", func(t *testing.T) {
		note := base.Clone()
		patch := NotePatch{}
		assert.True(t, patch.IsEmpty())

		patch.Apply(&note)
		assert.Equal(t, base, note)
	})
}

func TestStringListScanNil(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(nil))
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestNoteIDRoundTrip(t *testing.T) {
	id := NewNoteID()

	encoded, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded NoteID
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, id, decoded)

	parsed, err := ParseNoteID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseNoteID("not-a-uuid")
	assert.Error(t, err)
}
