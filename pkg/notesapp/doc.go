// Package notesapp provides the application logic for the notes API server:
// configuration, command parsing, the HTTP routing table, and the handlers
// tying the data store, identity service, and AI content service together.
//
// The server is the backend tier of an AI-assisted note-taking product. Each
// authenticated user gets a dedicated note coordinator that applies update
// and delete mutations optimistically against a cached collection, with
// rollback on remote failure; see
// [github.com/suryansh924/NotesApp-AI/pkg/notes].
//
// # Getting Started
//
// The application provides a command-line interface for running the server
// and managing the data store schema. For usage information, see
// [github.com/suryansh924/NotesApp-AI/pkg/notesapp.Main].
//
//	# Start the hosted data store
//	surreal start --user root --pass root
//
//	# Create the schema and run the server
//	notesapp migrate
//	notesapp run
//
// For local development without databases, run against the in-process store:
//
//	notesapp -backend memory run
package notesapp
