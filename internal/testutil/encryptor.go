package testutil

import (
	"notes-go/internal/encryption"
	"notes-go/internal/notes"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() notes.Encryptor {
	return encryption.NewTestEncryptor()
}
