package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or delete affected no rows.
	ErrNotFound = errors.New("note not found")

	// ErrClosed is returned when a repository or gateway is used after Close.
	ErrClosed = errors.New("closed")
)

// ValidationError reports a missing or malformed field. It is raised at the
// input boundary and never produced by the gateway.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a gateway failure with the operation that caused it.
type PersistenceError struct {
	Op  string // "insert", "update", "delete", "get", "query"
	ID  int64  // 0 for insert and query
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s note %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s note: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
