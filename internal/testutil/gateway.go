package testutil

import (
	"sync"

	"notes-go/internal/model"
	"notes-go/internal/notes"
)

// FaultyGateway wraps a notes.Gateway and fails selected operations.
// Safe for concurrent use.
type FaultyGateway struct {
	notes.Gateway

	mu       sync.Mutex
	failures map[string]error
	calls    []string
}

// NewFaultyGateway wraps g with no failures configured.
func NewFaultyGateway(g notes.Gateway) *FaultyGateway {
	return &FaultyGateway{Gateway: g, failures: make(map[string]error)}
}

// FailOn makes every call to op ("insert", "update", "delete", "get", "query")
// return err. A nil err clears the failure.
func (g *FaultyGateway) FailOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, op)
		return
	}
	g.failures[op] = err
}

// Calls returns the operations invoked so far, in order.
func (g *FaultyGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *FaultyGateway) check(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, op)
	return g.failures[op]
}

func (g *FaultyGateway) Insert(note model.Note) (int64, error) {
	if err := g.check("insert"); err != nil {
		return 0, err
	}
	return g.Gateway.Insert(note)
}

func (g *FaultyGateway) Update(id int64, fields notes.NoteFields) (int64, error) {
	if err := g.check("update"); err != nil {
		return 0, err
	}
	return g.Gateway.Update(id, fields)
}

func (g *FaultyGateway) DeleteByID(id int64) (int64, error) {
	if err := g.check("delete"); err != nil {
		return 0, err
	}
	return g.Gateway.DeleteByID(id)
}

func (g *FaultyGateway) QueryAll() ([]model.Note, error) {
	if err := g.check("query"); err != nil {
		return nil, err
	}
	return g.Gateway.QueryAll()
}

func (g *FaultyGateway) QueryByID(id int64) (*model.Note, error) {
	if err := g.check("get"); err != nil {
		return nil, err
	}
	return g.Gateway.QueryByID(id)
}
