package notes

import "notes-go/internal/model"

// NoteFields holds the mutable columns of a note.
type NoteFields struct {
	Title       string
	Description string
}

// Gateway provides durable CRUD for notes in a single table keyed by id.
// A Gateway holds one writable connection and is not safe for concurrent
// writers; Repository is the serialization point.
type Gateway interface {
	// Insert persists a new note and returns its assigned id.
	// The id is strictly greater than any id previously assigned by the table.
	// On failure the returned id is 0 and nothing was written.
	Insert(note model.Note) (int64, error)

	// Update overwrites title and description for the given id.
	// Date is never changed. Returns rows affected (0 or 1).
	Update(id int64, fields NoteFields) (int64, error)

	// DeleteByID removes the note with the given id.
	// Returns rows affected; 0 means the row was already absent.
	DeleteByID(id int64) (int64, error)

	// QueryAll returns every note ordered by id ascending.
	QueryAll() ([]model.Note, error)

	// QueryByID returns a single note, or nil if absent.
	QueryByID(id int64) (*model.Note, error)

	// Open acquires the connection. Calling Open on an open handle is a no-op.
	Open() error

	// Close releases the connection. Close is idempotent.
	Close() error
}
