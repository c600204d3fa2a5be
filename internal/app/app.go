package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"notes-go/internal/config"
	"notes-go/internal/database"
	"notes-go/internal/encryption"
	"notes-go/internal/listview"
	"notes-go/internal/model"
	"notes-go/internal/notes"
	"notes-go/internal/vault"
)

// NotesApp is the application layer between the CLI and the note store.
// It constructs all dependencies from config, exposes high-level operations
// and owns the lifetime of the database and the repository.
type NotesApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	repo      *notes.Repository
	vault     notes.Vault
	encryptor notes.Encryptor
	logger    notes.Logger
	clock     notes.Clock
	op        *Operation
	logFile   *os.File
	closed    bool
}

// NewNotesApp creates a fully wired NotesApp from the given config.
// operation names the CLI command being run (e.g. "AddNote", "Watch").
// The caller must call Close when done.
func NewNotesApp(cfg *config.Config, operation string) (*NotesApp, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	clock := notes.RealClock{}
	op := NewOperation(operation, notes.UUIDGenerator{}, clock)

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, level, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	v, err := vault.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	a := &NotesApp{
		cfg:       cfg,
		vault:     v,
		encryptor: enc,
		logger:    logger,
		clock:     clock,
		op:        op,
		logFile:   logFile,
	}
	if err := a.openStore(); err != nil {
		logFile.Close()
		return nil, err
	}

	logger.Debug("operation started", "operation", op.Name)
	return a, nil
}

// openStore opens the database and starts the repository on top of it.
func (a *NotesApp) openStore() error {
	db, err := database.NewDatabaseFromConfig(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return fmt.Errorf("database schema out of date: %w", err)
	}

	a.db = db
	a.repo = notes.NewRepository(db, a.logger, a.clock, notes.RepositoryOptions{
		ErrorBuffer: a.cfg.Repository.ErrorBuffer,
	})
	return nil
}

// closeStore drains the repository and closes the database.
func (a *NotesApp) closeStore() error {
	if a.repo != nil {
		a.repo.Close()
		a.repo = nil
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// AddNote validates the form input and stores a new note.
func (a *NotesApp) AddNote(title, description string) (model.Note, error) {
	note, err := notes.NewNote(title, description)
	if err != nil {
		return model.Note{}, a.op.Record(err)
	}

	res := <-a.repo.Insert(note)
	return res.Note, a.op.Record(res.Err)
}

// EditNote overwrites the title and/or description of an existing note.
// A nil argument keeps the current value.
func (a *NotesApp) EditNote(id int64, title, description *string) (model.Note, error) {
	current, err := a.ShowNote(id)
	if err != nil {
		return model.Note{}, err
	}

	newTitle, newDesc := current.Title, current.Description
	if title != nil {
		newTitle = *title
	}
	if description != nil {
		newDesc = *description
	}

	fields, err := notes.ValidateFields(newTitle, newDesc)
	if err != nil {
		return model.Note{}, a.op.Record(err)
	}
	current.Title = fields.Title
	current.Description = fields.Description

	res := <-a.repo.Update(current)
	return res.Note, a.op.Record(res.Err)
}

// RemoveNote deletes the note with the given id.
func (a *NotesApp) RemoveNote(id int64) error {
	res := <-a.repo.Delete(model.Note{ID: id})
	return a.op.Record(res.Err)
}

// ShowNote returns the note with the given id, as stored after all earlier writes.
func (a *NotesApp) ShowNote(id int64) (model.Note, error) {
	res := <-a.repo.Get(id)
	if res.Err != nil {
		return model.Note{}, a.op.Record(res.Err)
	}
	return res.Note, nil
}

// ListNotes returns every note ordered by id, after all earlier writes.
func (a *NotesApp) ListNotes() ([]model.Note, error) {
	if res := <-a.repo.Refresh(); res.Err != nil {
		return nil, a.op.Record(res.Err)
	}
	list, _ := a.repo.GetAllNotes().Value()
	return list, nil
}

// Watch keeps a NoteList in sync with the store until ctx ends, reloading
// every interval to pick up writes from other processes. Each change to the
// list is passed to onChange; persistence failures go to onError.
func (a *NotesApp) Watch(ctx context.Context, interval time.Duration, onChange listview.ChangeFunc, onError func(error)) error {
	if interval <= 0 {
		return a.op.Record(fmt.Errorf("watch interval must be positive, got %s", interval))
	}

	list := listview.New()
	remove := list.OnChange(onChange)
	defer remove()

	updates, cancel := a.repo.GetAllNotes().Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		errs := a.repo.Errors()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.repo.Refresh()
			case err, ok := <-errs:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()

	a.logger.Info("watching notes", "interval", interval)
	err := list.Follow(ctx, updates)
	stop()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return a.op.Record(err)
}

// SetupKeys generates the backup key pair protected by passphrase.
func (a *NotesApp) SetupKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return a.op.Record(fmt.Errorf("setting up keys: %w", err))
	}
	a.logger.Info("backup keys created")
	return nil
}

// Backup uploads an encrypted snapshot of the database to the vault.
// Returns the snapshot version.
func (a *NotesApp) Backup() (int64, error) {
	if !a.encryptor.IsConfigured() {
		return 0, a.op.Record(fmt.Errorf("backup keys not found: run `notes keys init` first"))
	}
	if err := a.vault.ValidateSetup(); err != nil {
		return 0, a.op.Record(fmt.Errorf("vault not ready: %w", err))
	}

	// Let queued writes land before the snapshot is taken.
	if res := <-a.repo.Refresh(); res.Err != nil {
		return 0, a.op.Record(res.Err)
	}

	version, err := a.backupService().Backup()
	return version, a.op.Record(err)
}

// Restore replaces the local database with the latest snapshot from the
// vault. The store is closed for the duration and reopened afterwards.
func (a *NotesApp) Restore(passphrase string) error {
	dbPath, err := database.PathFromConfig(a.cfg.Database)
	if err != nil {
		return a.op.Record(fmt.Errorf("restore needs a file database: %w", err))
	}

	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return a.op.Record(fmt.Errorf("unlocking keys: %w", err))
	}

	svc := a.backupService()
	if err := a.closeStore(); err != nil {
		return a.op.Record(err)
	}

	restoreErr := svc.Restore(dbPath, dc)
	if err := a.openStore(); err != nil {
		return a.op.Record(errors.Join(restoreErr, err))
	}
	return a.op.Record(restoreErr)
}

// ResetDatabase drops and recreates the note table. All notes are lost.
func (a *NotesApp) ResetDatabase() error {
	if res := <-a.repo.Refresh(); res.Err != nil {
		return a.op.Record(res.Err)
	}
	if err := a.db.Reset(); err != nil {
		return a.op.Record(fmt.Errorf("resetting database: %w", err))
	}
	a.logger.Warn("database reset", "path", a.db.Path())

	res := <-a.repo.Refresh()
	return a.op.Record(res.Err)
}

func (a *NotesApp) backupService() *notes.BackupService {
	return notes.NewBackupService(a.db, a.vault, a.encryptor, a.cfg.HostID, a.logger, a.clock)
}

// Close drains pending writes, closes the database and finishes the
// operation log. Close is idempotent.
func (a *NotesApp) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	err := a.closeStore()

	a.logger.Debug("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"duration", a.clock.Now().Sub(a.op.StartedAt).Truncate(time.Millisecond),
	)
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}
