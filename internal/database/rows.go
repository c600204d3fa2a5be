package database

import (
	"fmt"
	"strings"

	"notes-go/internal/model"
)

// Column names of the note table.
const (
	tableNote         = "note"
	columnID          = "_id"
	columnTitle       = "title"
	columnDescription = "description"
	columnDate        = "date"
)

// noteColumn maps one column of the note table to its model field.
type noteColumn struct {
	name  string
	field func(n *model.Note) any
}

// noteColumns is the schema-to-record mapping. Every SELECT lists columns
// in this order and scanNote fills fields in the same order.
var noteColumns = []noteColumn{
	{name: columnID, field: func(n *model.Note) any { return &n.ID }},
	{name: columnTitle, field: func(n *model.Note) any { return &n.Title }},
	{name: columnDescription, field: func(n *model.Note) any { return &n.Description }},
	{name: columnDate, field: func(n *model.Note) any { return &n.Date }},
}

var (
	selectNote = "SELECT " + columnList() + " FROM " + tableNote

	queryAllNotes = selectNote + " ORDER BY " + columnID + " ASC"
	queryNoteByID = selectNote + " WHERE " + columnID + " = ?"

	insertNote = fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)",
		tableNote, columnTitle, columnDescription, columnDate)
	updateNote = fmt.Sprintf("UPDATE %s SET %s = ?, %s = ? WHERE %s = ?",
		tableNote, columnTitle, columnDescription, columnID)
	deleteNote = fmt.Sprintf("DELETE FROM %s WHERE %s = ?", tableNote, columnID)
)

func columnList() string {
	names := make([]string, len(noteColumns))
	for i, c := range noteColumns {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// rowIterator is satisfied by *sql.Rows.
type rowIterator interface {
	rowScanner
	Next() bool
	Err() error
}

// scanNote reads one row laid out as noteColumns.
func scanNote(row rowScanner) (model.Note, error) {
	var n model.Note
	dest := make([]any, len(noteColumns))
	for i, c := range noteColumns {
		dest[i] = c.field(&n)
	}
	if err := row.Scan(dest...); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// scanNotes drains rows into a slice, preserving row order.
func scanNotes(rows rowIterator) ([]model.Note, error) {
	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}
