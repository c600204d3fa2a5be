package app

import (
	"time"

	"notes-go/internal/notes"
)

// Operation describes one CLI invocation. Its ID tags every log line the
// invocation writes.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
	Err       error
}

// NewOperation starts a new operation with a fresh id.
func NewOperation(name string, ids notes.IDGenerator, clock notes.Clock) *Operation {
	return &Operation{
		ID:        ids.New(),
		Name:      name,
		StartedAt: clock.Now(),
		Status:    "success",
	}
}

// Record marks the operation failed when err is non-nil and returns err.
// The first failure wins.
func (op *Operation) Record(err error) error {
	if err != nil && op.Err == nil {
		op.Status = "error"
		op.Err = err
	}
	return err
}

// Failed reports whether any step of the operation failed.
func (op *Operation) Failed() bool {
	return op.Err != nil
}
