// Package listview holds the displayed note snapshot and turns snapshot
// replacement into granular change notifications for a rendering layer.
package listview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"notes-go/internal/diff"
	"notes-go/internal/model"
)

// ErrOutOfRange is returned for positions outside the current snapshot.
var ErrOutOfRange = errors.New("position out of range")

// ChangeFunc receives one edit of the displayed list.
type ChangeFunc func(op diff.Op)

// ClickFunc receives the clicked note and its position at click time.
type ClickFunc func(note model.Note, position int)

// NoteList owns the currently displayed snapshot. Listeners run
// synchronously on the goroutine that calls ReplaceAll or Click and must not
// call back into ReplaceAll.
type NoteList struct {
	mu      sync.RWMutex
	items   []model.Note
	nextID  int
	changes map[int]ChangeFunc
	clicks  map[int]ClickFunc

	// dispatch serializes notification delivery so listeners observe
	// scripts in the order snapshots were replaced.
	dispatch sync.Mutex
}

// New returns an empty NoteList.
func New() *NoteList {
	return &NoteList{
		changes: make(map[int]ChangeFunc),
		clicks:  make(map[int]ClickFunc),
	}
}

// Count returns the number of displayed notes.
func (l *NoteList) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// ItemAt returns the note displayed at position.
func (l *NoteList) ItemAt(position int) (model.Note, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if position < 0 || position >= len(l.items) {
		return model.Note{}, fmt.Errorf("item %d of %d: %w", position, len(l.items), ErrOutOfRange)
	}
	return l.items[position], nil
}

// Items returns a copy of the displayed snapshot.
func (l *NoteList) Items() []model.Note {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// ReplaceAll diffs the held snapshot against newList, replaces it, then
// notifies change listeners of each edit in script order.
func (l *NoteList) ReplaceAll(newList []model.Note) diff.Script {
	l.dispatch.Lock()
	defer l.dispatch.Unlock()

	l.mu.Lock()
	script := diff.Compute(l.items, newList)
	l.items = slices.Clone(newList)
	listeners := l.changeListeners()
	l.mu.Unlock()

	for _, op := range script {
		for _, fn := range listeners {
			fn(op)
		}
	}
	return script
}

// OnChange registers fn for change notifications and returns a function
// that removes it.
func (l *NoteList) OnChange(fn ChangeFunc) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.changes[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.changes, id)
	}
}

// OnClick registers fn for item clicks and returns a function that removes it.
// The list itself never acts on a click.
func (l *NoteList) OnClick(fn ClickFunc) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.clicks[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.clicks, id)
	}
}

// Click reports a click on position to every click listener.
func (l *NoteList) Click(position int) error {
	l.mu.RLock()
	if position < 0 || position >= len(l.items) {
		n := len(l.items)
		l.mu.RUnlock()
		return fmt.Errorf("click %d of %d: %w", position, n, ErrOutOfRange)
	}
	item := l.items[position]
	listeners := make([]ClickFunc, 0, len(l.clicks))
	for _, id := range sortedKeys(l.clicks) {
		listeners = append(listeners, l.clicks[id])
	}
	l.mu.RUnlock()

	for _, fn := range listeners {
		fn(item, position)
	}
	return nil
}

// Follow applies every snapshot received on updates until ctx is done or
// updates is closed.
func (l *NoteList) Follow(ctx context.Context, updates <-chan []model.Note) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-updates:
			if !ok {
				return nil
			}
			l.ReplaceAll(snapshot)
		}
	}
}

// changeListeners returns listeners in registration order. Caller holds mu.
func (l *NoteList) changeListeners() []ChangeFunc {
	out := make([]ChangeFunc, 0, len(l.changes))
	for _, id := range sortedKeys(l.changes) {
		out = append(out, l.changes[id])
	}
	return out
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
