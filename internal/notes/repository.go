package notes

import (
	"errors"
	"strings"
	"sync"

	"notes-go/internal/model"
)

// Operation names carried by Result.Op.
const (
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpGet     = "get"
	OpRefresh = "refresh"
)

const defaultErrorBuffer = 16

// Result is the outcome of one queued repository operation. Err describes
// the operation itself: a write that committed reports a nil Err even when
// the reload that follows it fails. Reload failures go to Errors().
type Result struct {
	Op   string
	Note model.Note // stored state after the write (id and date filled on insert)
	Err  error
}

// RepositoryOptions tunes a Repository. Zero values select defaults.
type RepositoryOptions struct {
	// ErrorBuffer is the capacity of the Errors channel.
	ErrorBuffer int
}

type job struct {
	op     string
	run    func() (model.Note, error)
	reload bool // reload the live view after a successful run
	result chan Result
}

// Repository adapts a Gateway to an observable interface. All writes are
// executed by a single worker goroutine in submission order, which makes it
// the only serialization point in front of the gateway. Callers are never
// blocked by a write: each call returns a channel that receives exactly one
// Result.
type Repository struct {
	gateway Gateway
	logger  Logger
	clock   Clock
	live    *LiveNotes
	errs    chan error

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool
	done   chan struct{}
}

// NewRepository starts the write worker and schedules the initial load.
// The caller must call Close; the gateway stays owned by the caller.
func NewRepository(gateway Gateway, logger Logger, clock Clock, opts RepositoryOptions) *Repository {
	if opts.ErrorBuffer <= 0 {
		opts.ErrorBuffer = defaultErrorBuffer
	}

	r := &Repository{
		gateway: gateway,
		logger:  logger,
		clock:   clock,
		live:    newLiveNotes(),
		errs:    make(chan error, opts.ErrorBuffer),
		done:    make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)

	go r.loop()
	r.Refresh()
	return r
}

// GetAllNotes returns the live view of all notes ordered by id.
func (r *Repository) GetAllNotes() *LiveNotes {
	return r.live
}

// Errors returns a channel carrying every persistence failure. It is closed
// after Close. When the buffer is full new errors are logged and dropped.
func (r *Repository) Errors() <-chan error {
	return r.errs
}

// Insert queues a new note. The title must be non-empty; a blank title is
// rejected with a *ValidationError without touching the gateway.
// An empty Date is filled from the clock.
func (r *Repository) Insert(note model.Note) <-chan Result {
	if err := checkTitle(note); err != nil {
		return r.reject(OpInsert, note, err)
	}
	return r.submit(OpInsert, true, func() (model.Note, error) {
		return r.insert(note)
	})
}

// Update queues an overwrite of the note's title and description.
// A missing row resolves to an error matching ErrNotFound.
func (r *Repository) Update(note model.Note) <-chan Result {
	if err := checkTitle(note); err != nil {
		return r.reject(OpUpdate, note, err)
	}
	return r.submit(OpUpdate, true, func() (model.Note, error) {
		return r.update(note)
	})
}

// Delete queues removal of the note. A missing row resolves to an error
// matching ErrNotFound; callers may treat that as already done.
func (r *Repository) Delete(note model.Note) <-chan Result {
	return r.submit(OpDelete, true, func() (model.Note, error) {
		return r.delete(note)
	})
}

// Get queues a read of a single note. It runs after every previously
// submitted write. A missing row resolves to an error matching ErrNotFound.
func (r *Repository) Get(id int64) <-chan Result {
	return r.submit(OpGet, false, func() (model.Note, error) {
		return r.get(id)
	})
}

// Refresh queues a reload of the live view from the gateway. Since it runs
// after every previously submitted write, waiting on it also acts as a
// barrier.
func (r *Repository) Refresh() <-chan Result {
	return r.submit(OpRefresh, false, func() (model.Note, error) {
		return model.Note{}, r.reload()
	})
}

// Close stops accepting work, runs every queued job to completion and
// closes subscriber channels and the Errors channel. Close is idempotent.
func (r *Repository) Close() error {
	r.mu.Lock()
	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	<-r.done
	return nil
}

func (r *Repository) submit(op string, reload bool, run func() (model.Note, error)) <-chan Result {
	result := make(chan Result, 1)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		result <- Result{Op: op, Err: ErrClosed}
		return result
	}
	r.queue = append(r.queue, job{op: op, run: run, reload: reload, result: result})
	r.cond.Signal()
	r.mu.Unlock()

	return result
}

func (r *Repository) reject(op string, note model.Note, err error) <-chan Result {
	r.logger.Warn("rejected note", "op", op, "error", err)
	result := make(chan Result, 1)
	result <- Result{Op: op, Note: note, Err: err}
	return result
}

func (r *Repository) loop() {
	defer close(r.done)
	defer close(r.errs)
	defer r.live.close()

	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.cond.Wait()
		}
		if len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}
		j := r.queue[0]
		r.queue[0] = job{}
		r.queue = r.queue[1:]
		r.mu.Unlock()

		r.execute(j)
	}
}

func (r *Repository) execute(j job) {
	note, err := j.run()
	if err != nil {
		r.fail(j.op, err)
		j.result <- Result{Op: j.op, Note: note, Err: err}
		return
	}
	r.logger.Debug("note operation complete", "op", j.op, "id", note.ID)

	if j.reload {
		if rerr := r.reload(); rerr != nil {
			r.fail(OpRefresh, rerr)
		}
	}
	j.result <- Result{Op: j.op, Note: note}
}

func (r *Repository) fail(op string, err error) {
	r.logger.Error("note operation failed", "op", op, "error", err)
	select {
	case r.errs <- err:
	default:
		r.logger.Warn("error channel full, dropping error", "op", op, "error", err)
	}
}

func (r *Repository) reload() error {
	notes, err := r.gateway.QueryAll()
	if err != nil {
		return &PersistenceError{Op: "query", Err: err}
	}
	r.live.publish(notes)
	return nil
}

func (r *Repository) insert(note model.Note) (model.Note, error) {
	if note.Date == "" {
		note.Date = r.clock.Now().Format(model.DateLayout)
	}

	id, err := r.gateway.Insert(note)
	if err != nil {
		return note, &PersistenceError{Op: OpInsert, Err: err}
	}
	if id <= 0 {
		return note, &PersistenceError{Op: OpInsert, Err: errors.New("no id assigned")}
	}
	note.ID = id
	return note, nil
}

func (r *Repository) update(note model.Note) (model.Note, error) {
	rows, err := r.gateway.Update(note.ID, NoteFields{Title: note.Title, Description: note.Description})
	if err != nil {
		return note, &PersistenceError{Op: OpUpdate, ID: note.ID, Err: err}
	}
	if rows == 0 {
		return note, &PersistenceError{Op: OpUpdate, ID: note.ID, Err: ErrNotFound}
	}

	// Return the stored row so the caller sees the unchanged date. The
	// update has committed, so a failed read-back does not fail it.
	stored, err := r.gateway.QueryByID(note.ID)
	if err != nil {
		r.fail(OpUpdate, &PersistenceError{Op: OpGet, ID: note.ID, Err: err})
		return note, nil
	}
	if stored == nil {
		return note, nil
	}
	return *stored, nil
}

func (r *Repository) get(id int64) (model.Note, error) {
	stored, err := r.gateway.QueryByID(id)
	if err != nil {
		return model.Note{ID: id}, &PersistenceError{Op: OpGet, ID: id, Err: err}
	}
	if stored == nil {
		return model.Note{ID: id}, &PersistenceError{Op: OpGet, ID: id, Err: ErrNotFound}
	}
	return *stored, nil
}

func (r *Repository) delete(note model.Note) (model.Note, error) {
	rows, err := r.gateway.DeleteByID(note.ID)
	if err != nil {
		return note, &PersistenceError{Op: OpDelete, ID: note.ID, Err: err}
	}
	if rows == 0 {
		return note, &PersistenceError{Op: OpDelete, ID: note.ID, Err: ErrNotFound}
	}
	return note, nil
}

func checkTitle(note model.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return &ValidationError{Field: "title", Message: "field can not be blank"}
	}
	return nil
}
