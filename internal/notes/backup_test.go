package notes_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"notes-go/internal/database"
	"notes-go/internal/model"
	"notes-go/internal/notes"
	"notes-go/internal/testutil"
)

func TestBackupService_RoundTrip(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	for _, title := range []string{"first", "second"} {
		if _, err := db.Insert(model.Note{Title: title, Date: "2024-01-01 10:00:00"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	vault := testutil.NewTestVault()
	enc := testutil.NewTestEncryptor()
	clock := testutil.FixedClock()
	svc := notes.NewBackupService(db, vault, enc, "host-1", notes.NewNopLogger(), clock)

	version, err := svc.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if version != clock.Now().Unix() {
		t.Errorf("version = %d, want %d", version, clock.Now().Unix())
	}

	var stored bytes.Buffer
	if err := vault.GetSnapshot("host-1", &stored); err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if bytes.HasPrefix(stored.Bytes(), []byte("SQLite format 3")) {
		t.Error("vault holds an unencrypted database")
	}

	dc, err := enc.Unlock("")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "restored", "notes.db")
	if err := svc.Restore(dest, dc); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := database.NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening restored database: %v", err)
	}
	defer restored.Close()

	got, err := restored.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("restored notes = %+v", got)
	}
}

func TestBackupService_LaterBackupReplaces(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	vault := testutil.NewTestVault()
	clock := testutil.FixedClock()
	svc := notes.NewBackupService(db, vault, testutil.NewTestEncryptor(), "host-1", notes.NewNopLogger(), clock)

	v1, err := svc.Backup()
	if err != nil {
		t.Fatalf("first Backup() error = %v", err)
	}
	clock.Advance(time.Hour)
	v2, err := svc.Backup()
	if err != nil {
		t.Fatalf("second Backup() error = %v", err)
	}

	if v2 <= v1 {
		t.Errorf("versions %d then %d, want increasing", v1, v2)
	}
	if got, _ := vault.GetSnapshotVersion("host-1"); got != v2 {
		t.Errorf("vault version = %d, want %d", got, v2)
	}
}

func TestBackupService_RestoreWithoutSnapshot(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	enc := testutil.NewTestEncryptor()
	svc := notes.NewBackupService(db, testutil.NewTestVault(), enc, "host-1", notes.NewNopLogger(), testutil.FixedClock())

	dc, _ := enc.Unlock("")
	dest := filepath.Join(t.TempDir(), "notes.db")
	if err := svc.Restore(dest, dc); err == nil {
		t.Fatal("Restore() with empty vault succeeded, want error")
	}
}
