package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		HostID:     "test-host-abc",
		BaseDir:    "/home/user/.local/share/notes",
		LogDir:     "/home/user/.local/share/notes/log",
		Database:   DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/notes/data"},
		Repository: RepositoryConfig{ErrorBuffer: 4},
		Vault: VaultConfig{
			Type:       "s3",
			Name:       "remote",
			S3Bucket:   "notes-backups",
			S3Prefix:   "laptop",
			S3Region:   "eu-west-1",
			S3Endpoint: "http://localhost:9000",
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/notes/keys/notes.pub",
			PrivateKeyPath: "/home/user/.local/share/notes/keys/notes.key",
		},
		Watch: WatchConfig{Interval: "500ms"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != original.HostID {
		t.Errorf("HostID = %q, want %q", got.HostID, original.HostID)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Repository.ErrorBuffer != 4 {
		t.Errorf("Repository.ErrorBuffer = %d, want 4", got.Repository.ErrorBuffer)
	}
	if got.Vault != original.Vault {
		t.Errorf("Vault = %+v, want %+v", got.Vault, original.Vault)
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
	if got.Watch.Interval != "500ms" {
		t.Errorf("Watch.Interval = %q, want %q", got.Watch.Interval, "500ms")
	}
}

func TestManager_Read_TOMLDocument(t *testing.T) {
	doc := `
host_id = "h1"
base_dir = "/data/notes"

[database]
type = "memory"

[vault]
type = "filesystem"
name = "local"
fs_vault_root = "/backup"
`
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Database.Type != "memory" {
		t.Errorf("Database.Type = %q, want memory", cfg.Database.Type)
	}
	if cfg.Vault.FSVaultRoot != "/backup" {
		t.Errorf("Vault.FSVaultRoot = %q, want /backup", cfg.Vault.FSVaultRoot)
	}
}

func TestManager_Read_InvalidTOML(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("host_id = ")); err == nil {
		t.Error("Read() expected error for invalid TOML")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/notes")

	if cfg.HostID != "host-1" {
		t.Errorf("HostID = %q, want %q", cfg.HostID, "host-1")
	}
	if cfg.LogDir != "/data/notes/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/notes/log")
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DataDir != "/data/notes/data" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Vault.FSVaultRoot != "/data/notes/vault" {
		t.Errorf("Vault.FSVaultRoot = %q", cfg.Vault.FSVaultRoot)
	}
	if cfg.Encryption.PublicKeyPath != "/data/notes/keys/notes.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q", cfg.Encryption.PublicKeyPath)
	}
	if cfg.Encryption.PrivateKeyPath != "/data/notes/keys/notes.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q", cfg.Encryption.PrivateKeyPath)
	}
}

func TestWatchConfig_PollInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		want     time.Duration
		wantErr  bool
	}{
		{name: "default when empty", interval: "", want: DefaultWatchInterval},
		{name: "parses duration", interval: "250ms", want: 250 * time.Millisecond},
		{name: "rejects garbage", interval: "soon", wantErr: true},
		{name: "rejects zero", interval: "0s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WatchConfig{Interval: tt.interval}.PollInterval()
			if (err != nil) != tt.wantErr {
				t.Fatalf("PollInterval() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("PollInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notes.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notes.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notes.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HostID != "read-test" {
			t.Errorf("HostID = %q, want %q", got.HostID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want memory", got.Database.Type)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/notes.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
