package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringList is an ordered list of strings stored as JSON.
//
// Tag lists are ordered and intentionally not deduplicated: the presentation
// layer renders tags in the order the user typed them. The type adapts to
// each backend's native format: JSONB in PostgreSQL, a plain array in the
// hosted store's CBOR encoding, and a JSON array on the HTTP wire.
type StringList []string

// Value implements the driver.Valuer interface for database storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		bytes = []byte(value.(string))
	}
	return json.Unmarshal(bytes, l)
}

// Note is the single domain entity of the application.
//
// Content holds rendered HTML, not Markdown source: the rich-text editor in
// the presentation layer emits markup and the stored form is what it emits.
// The JSON field names mirror the wire format the presentation layer already
// consumes, which is camelCase except for user_id.
//
// IsPrivate and UserID are modeled but not enforced anywhere in this tier;
// they are reserved for a future access-control layer and must not be relied
// on for isolation.
type Note struct {
	ID        NoteID     `gorm:"type:uuid;primary_key" json:"id"`
	Title     string     `json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Tags      StringList `gorm:"type:jsonb" json:"tags"`
	IsPrivate bool       `json:"isPrivate"`
	UserID    UserID     `gorm:"type:uuid;index" json:"user_id"`
}

// NotePatch is a partial update to a note. Nil fields are left untouched.
// ID, CreatedAt and UserID are immutable and deliberately absent; UpdatedAt
// is refreshed by whoever applies the patch, never carried inside it.
type NotePatch struct {
	Title     *string     `json:"title,omitempty"`
	Content   *string     `json:"content,omitempty"`
	Tags      *StringList `json:"tags,omitempty"`
	IsPrivate *bool       `json:"isPrivate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsPrivate == nil
}

// Apply merges the patch into the note in place. It does not touch UpdatedAt;
// callers set that to their notion of "now" so the optimistic copy and the
// authoritative write stay distinguishable in tests.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		tags := make(StringList, len(*p.Tags))
		copy(tags, *p.Tags)
		n.Tags = tags
	}
	if p.IsPrivate != nil {
		n.IsPrivate = *p.IsPrivate
	}
}

// Columns returns the patch as a column→value map in the relational naming
// scheme, the shape gorm's Updates expects. UpdatedAt is not included; see
// Apply. The hosted store builds its own merge document because its field
// names follow the wire format, not column names.
func (p NotePatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Tags != nil {
		cols["tags"] = *p.Tags
	}
	if p.IsPrivate != nil {
		cols["is_private"] = *p.IsPrivate
	}
	return cols
}

// Clone returns a deep copy of the note. The coordinator's snapshot/rollback
// machinery depends on clones being fully detached from the original.
func (n Note) Clone() Note {
	out := n
	out.Tags = make(StringList, len(n.Tags))
	copy(out.Tags, n.Tags)
	return out
}

// User is the identity echoed by the hosted auth provider. The application
// never creates users directly; accounts exist in the provider and this
// type is only a projection of what it returns.
type User struct {
	ID        UserID    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
