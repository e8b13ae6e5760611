// Package models defines the domain entities shared by every tier of the
// application: the [Note] record, the partial-update shape [NotePatch], the
// auth-provider projection [User], and the typed identifiers [NoteID] and
// [UserID].
//
// The package is deliberately free of behavior beyond marshaling and merge
// semantics. Storage backends, the cache coordinator, the HTTP handlers and
// the API client all exchange these exact types, so the marshaling rules
// declared here are the single source of truth for the wire and storage
// formats:
//
//   - JSON: UUID strings for IDs, RFC3339 timestamps, camelCase keys with the
//     historical user_id exception.
//   - CBOR (hosted store): typed IDs marshal to SurrealDB RecordIDs via tag 8
//     so records link properly without string concatenation.
//   - SQL (Postgres backend): IDs as uuid columns, tags as JSONB.
package models
