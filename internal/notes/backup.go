package notes

import (
	"fmt"
	"os"
	"path/filepath"
)

// Snapshotter produces a consistent copy of the open database.
type Snapshotter interface {
	BackupTo(destPath string) error
}

// BackupService copies the note database into a vault, encrypted.
type BackupService struct {
	db        Snapshotter
	vault     Vault
	encryptor Encryptor
	hostID    string
	logger    Logger
	clock     Clock
}

// NewBackupService creates a BackupService for the given host.
func NewBackupService(db Snapshotter, vault Vault, encryptor Encryptor, hostID string, logger Logger, clock Clock) *BackupService {
	return &BackupService{
		db:        db,
		vault:     vault,
		encryptor: encryptor,
		hostID:    hostID,
		logger:    logger,
		clock:     clock,
	}
}

// Backup snapshots the database, encrypts it and uploads it to the vault.
// Returns the version recorded with the snapshot.
func (s *BackupService) Backup() (int64, error) {
	tmpDir, err := os.MkdirTemp("", "notes-backup-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// VACUUM INTO refuses to overwrite, so the target must not exist yet.
	plainPath := filepath.Join(tmpDir, "notes.db")
	if err := s.db.BackupTo(plainPath); err != nil {
		return 0, fmt.Errorf("snapshotting database: %w", err)
	}

	encPath := filepath.Join(tmpDir, "notes.db.enc")
	if err := s.encryptFile(plainPath, encPath); err != nil {
		return 0, err
	}

	f, err := os.Open(encPath)
	if err != nil {
		return 0, fmt.Errorf("opening encrypted snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat encrypted snapshot: %w", err)
	}

	version := s.clock.Now().Unix()
	if err := s.vault.PutSnapshot(s.hostID, f, info.Size(), version); err != nil {
		return 0, fmt.Errorf("uploading snapshot: %w", err)
	}

	s.logger.Info("backup uploaded", "host", s.hostID, "version", version, "size", info.Size())
	return version, nil
}

// Restore downloads the latest snapshot, decrypts it with dc and writes it
// to destPath atomically. The database at destPath must not be open.
func (s *BackupService) Restore(destPath string, dc DecryptionContext) error {
	version, err := s.vault.GetSnapshotVersion(s.hostID)
	if err != nil {
		return fmt.Errorf("checking snapshot version: %w", err)
	}
	if version == 0 {
		return fmt.Errorf("no snapshot stored for host %s", s.hostID)
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	encFile, err := os.CreateTemp(dir, ".restore-enc-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	encPath := encFile.Name()
	defer os.Remove(encPath)

	if err := s.vault.GetSnapshot(s.hostID, encFile); err != nil {
		encFile.Close()
		return fmt.Errorf("downloading snapshot: %w", err)
	}
	if err := encFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	plainFile, err := os.CreateTemp(dir, ".restore-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	plainPath := plainFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(plainPath)
		}
	}()

	src, err := os.Open(encPath)
	if err != nil {
		plainFile.Close()
		return fmt.Errorf("opening downloaded snapshot: %w", err)
	}
	defer src.Close()

	if err := dc.Decrypt(src, plainFile); err != nil {
		plainFile.Close()
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	if err := plainFile.Close(); err != nil {
		return fmt.Errorf("closing restored database: %w", err)
	}

	if err := os.Rename(plainPath, destPath); err != nil {
		return fmt.Errorf("replacing database: %w", err)
	}
	success = true

	s.logger.Info("backup restored", "host", s.hostID, "version", version, "path", destPath)
	return nil
}

func (s *BackupService) encryptFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}

	if err := s.encryptor.Encrypt(src, dst); err != nil {
		dst.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing encrypted snapshot: %w", err)
	}
	return nil
}
