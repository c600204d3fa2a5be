package encryption

import (
	"testing"

	"notes-go/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EncryptionConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "age",
			cfg:      config.EncryptionConfig{Type: "age", PublicKeyPath: "/k/notes.pub", PrivateKeyPath: "/k/notes.key"},
			wantType: "age",
		},
		{
			name:     "empty type defaults to age",
			cfg:      config.EncryptionConfig{PublicKeyPath: "/k/notes.pub", PrivateKeyPath: "/k/notes.key"},
			wantType: "age",
		},
		{
			name:    "age without key paths",
			cfg:     config.EncryptionConfig{Type: "age"},
			wantErr: true,
		},
		{
			name:     "test",
			cfg:      config.EncryptionConfig{Type: "test"},
			wantType: "test",
		},
		{
			name:    "unknown",
			cfg:     config.EncryptionConfig{Type: "rot13"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncryptorFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			switch tt.wantType {
			case "age":
				if _, ok := got.(*AgeEncryptor); !ok {
					t.Errorf("got %T, want *AgeEncryptor", got)
				}
			case "test":
				if _, ok := got.(*TestEncryptor); !ok {
					t.Errorf("got %T, want *TestEncryptor", got)
				}
			}
		})
	}
}
