package model

// DateLayout is the format of Note.Date.
const DateLayout = "2006-01-02 15:04:05"

// Note represents a single note row.
type Note struct {
	ID          int64  // Auto-increment primary key; 0 until first insert
	Title       string // Required, never empty once persisted
	Description string // Optional, stored as ""
	Date        string // Creation time in DateLayout; immutable after insert
}

// IsNew reports whether the note has not been persisted yet.
func (n Note) IsNew() bool {
	return n.ID == 0
}

// SameItem reports whether a and b refer to the same stored note.
func SameItem(a, b Note) bool {
	return a.ID == b.ID
}

// SameContent reports whether a and b display the same content.
// Date is excluded since it never changes after insert.
func SameContent(a, b Note) bool {
	return a.Title == b.Title && a.Description == b.Description
}
