package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"notes-go/internal/database/migrations"
	"notes-go/internal/model"
	"notes-go/internal/notes"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the notes.Gateway interface using SQLite.
// It holds exactly one connection; callers serialize writes.
type SQLiteDatabase struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the database at path and creates the schema if
// absent. path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	s := &SQLiteDatabase{path: path}
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// The pool is capped at one connection so ":memory:" databases stay coherent.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait up to 5s for locks held by another process.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Open acquires the connection and applies migrations. It is a no-op when
// the handle is already open.
func (s *SQLiteDatabase) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := OpenConnection(s.path)
	if err != nil {
		return err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteDatabase) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("database %s: %w", s.path, notes.ErrClosed)
	}
	return s.db, nil
}

// Note operations

func (s *SQLiteDatabase) Insert(note model.Note) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(insertNote, note.Title, note.Description, note.Date)
	if err != nil {
		return 0, fmt.Errorf("inserting note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) Update(id int64, fields notes.NoteFields) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(updateNote, fields.Title, fields.Description, id)
	if err != nil {
		return 0, fmt.Errorf("updating note: %w", err)
	}
	return rowsAffected(res)
}

func (s *SQLiteDatabase) DeleteByID(id int64) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(deleteNote, id)
	if err != nil {
		return 0, fmt.Errorf("deleting note: %w", err)
	}
	return rowsAffected(res)
}

func (s *SQLiteDatabase) QueryAll() ([]model.Note, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(queryAllNotes)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (s *SQLiteDatabase) QueryByID(id int64) (*model.Note, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	n, err := scanNote(db.QueryRow(queryNoteByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding note by id: %w", err)
	}
	return &n, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return n, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return migrations.CheckDBMigrationStatus(db)
}

// Reset drops and recreates the note table. All notes are lost.
func (s *SQLiteDatabase) Reset() error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return migrations.Reset(db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection. Close is idempotent.
func (s *SQLiteDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Compile-time checks
var (
	_ notes.Gateway     = (*SQLiteDatabase)(nil)
	_ notes.Snapshotter = (*SQLiteDatabase)(nil)
)
