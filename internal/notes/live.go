package notes

import (
	"slices"
	"sync"

	"notes-go/internal/model"
)

// LiveNotes is a read-only, push-updated view of the full note set ordered
// by id. Only the owning Repository publishes to it.
type LiveNotes struct {
	mu     sync.Mutex
	value  []model.Note
	loaded bool
	closed bool
	nextID int
	subs   map[int]chan []model.Note
}

func newLiveNotes() *LiveNotes {
	return &LiveNotes{subs: make(map[int]chan []model.Note)}
}

// Value returns a copy of the latest snapshot. ok is false until the first
// load has completed.
func (l *LiveNotes) Value() (notes []model.Note, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return nil, false
	}
	return slices.Clone(l.value), true
}

// Subscribe returns a channel that receives the latest snapshot, first on
// subscription (if loaded) and then after every change. A slow reader only
// sees the newest snapshot. The channel is closed by cancel or when the
// repository closes.
func (l *LiveNotes) Subscribe() (<-chan []model.Note, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan []model.Note, 1)
	if l.closed {
		close(ch)
		return ch, func() {}
	}

	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	if l.loaded {
		ch <- slices.Clone(l.value)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if sub, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (l *LiveNotes) publish(notes []model.Note) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.value = slices.Clone(notes)
	l.loaded = true
	for _, ch := range l.subs {
		// Replace any unread snapshot with the newest one.
		select {
		case <-ch:
		default:
		}
		ch <- slices.Clone(notes)
	}
}

func (l *LiveNotes) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, ch := range l.subs {
		delete(l.subs, id)
		close(ch)
	}
}
