package database

import (
	"errors"
	"strings"
	"testing"

	"notes-go/internal/model"
)

// fakeRows serves canned rows in noteColumns order.
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Err() error { return f.err }

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.pos-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *int64:
			id, ok := v.(int64)
			if !ok {
				return errors.New("expected int64")
			}
			*d = id
		case *string:
			s, ok := v.(string)
			if !ok {
				return errors.New("expected string")
			}
			*d = s
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func TestScanNotes(t *testing.T) {
	t.Run("maps columns in order", func(t *testing.T) {
		rows := &fakeRows{rows: [][]any{
			{int64(1), "Buy milk", "", "2024-01-01 10:00:00"},
			{int64(2), "Walk dog", "park", "2024-01-01 10:01:00"},
		}}

		got, err := scanNotes(rows)
		if err != nil {
			t.Fatalf("scanNotes() error = %v", err)
		}

		want := []model.Note{
			{ID: 1, Title: "Buy milk", Description: "", Date: "2024-01-01 10:00:00"},
			{ID: 2, Title: "Walk dog", Description: "park", Date: "2024-01-01 10:01:00"},
		}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("note[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("empty result is non-nil", func(t *testing.T) {
		got, err := scanNotes(&fakeRows{})
		if err != nil {
			t.Fatalf("scanNotes() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("scanNotes() = %v, want empty slice", got)
		}
	})

	t.Run("propagates scan errors", func(t *testing.T) {
		rows := &fakeRows{rows: [][]any{{"not-an-id", "t", "", "d"}}}
		if _, err := scanNotes(rows); err == nil {
			t.Error("scanNotes() expected error, got nil")
		}
	})

	t.Run("propagates iteration errors", func(t *testing.T) {
		rows := &fakeRows{err: errors.New("disk I/O error")}
		if _, err := scanNotes(rows); err == nil {
			t.Error("scanNotes() expected error, got nil")
		}
	})
}

func TestQueries_UseColumnTable(t *testing.T) {
	for _, c := range noteColumns {
		if !strings.Contains(queryAllNotes, c.name) {
			t.Errorf("queryAllNotes missing column %q: %s", c.name, queryAllNotes)
		}
	}
	if !strings.HasSuffix(queryAllNotes, "ORDER BY _id ASC") {
		t.Errorf("queryAllNotes = %q, want ordering by _id", queryAllNotes)
	}
	if strings.Contains(updateNote, columnDate) {
		t.Errorf("updateNote must not touch %s: %s", columnDate, updateNote)
	}
	if !strings.HasSuffix(deleteNote, "= ?") {
		t.Errorf("deleteNote must be parameterized: %s", deleteNote)
	}
}
