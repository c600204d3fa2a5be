package notes

import "io"

// Vault stores encrypted database snapshots, one slot per host.
// All operations stream through io.Reader/io.Writer.
type Vault interface {
	// PutSnapshot stores a snapshot for hostID, replacing any previous one.
	// size is the number of bytes that will be read from r.
	// version is stored alongside the snapshot for consistency checks.
	PutSnapshot(hostID string, r io.Reader, size int64, version int64) error

	// GetSnapshot retrieves the snapshot for hostID and writes it to w.
	GetSnapshot(hostID string, w io.Writer) error

	// GetSnapshotVersion returns the stored version, or 0 if none exists.
	GetSnapshotVersion(hostID string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
