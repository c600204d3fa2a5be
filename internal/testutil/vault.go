package testutil

import (
	"notes-go/internal/notes"
	"notes-go/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() notes.Vault {
	return vault.NewMemoryVault("test-vault")
}
