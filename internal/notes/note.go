package notes

import (
	"strings"

	"notes-go/internal/model"
)

// ValidateFields trims title and description and checks that the title is
// present. It returns the cleaned fields.
func ValidateFields(title, description string) (NoteFields, error) {
	fields := NoteFields{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if fields.Title == "" {
		return NoteFields{}, &ValidationError{Field: "title", Message: "field can not be blank"}
	}
	return fields, nil
}

// NewNote builds an unsaved note from form input.
func NewNote(title, description string) (model.Note, error) {
	fields, err := ValidateFields(title, description)
	if err != nil {
		return model.Note{}, err
	}
	return model.Note{Title: fields.Title, Description: fields.Description}, nil
}
