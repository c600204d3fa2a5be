package testutil

import (
	"fmt"
	"sync"
	"time"

	"notes-go/internal/model"
)

// FixedDate is the note date stamped by FixedClock, in model.DateLayout.
const FixedDate = "2024-01-01 10:00:00"

// StubClock is a notes.Clock that only moves when told to.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock whose dates format as FixedDate.
func FixedClock() *StubClock {
	t, err := time.Parse(model.DateLayout, FixedDate)
	if err != nil {
		panic(err)
	}
	return NewStubClock(t)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, e.g. to give a later backup a
// newer snapshot version.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator hands out operation ids "op-1", "op-2", ...
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("op-%d", g.next)
}
