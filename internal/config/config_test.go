package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "mariiahub-sync"
sync:
  endpoint: "https://api.mariia-hub.com/v1/bookings/sync"
storage:
  backend: "file"
  file_path: "queue.json"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Sync.Endpoint != "https://api.mariia-hub.com/v1/bookings/sync" {
		t.Errorf("unexpected endpoint: %s", cfg.Sync.Endpoint)
	}
	if cfg.Storage.FilePath != "queue.json" {
		t.Errorf("unexpected file path: %s", cfg.Storage.FilePath)
	}

	// Defaults
	if cfg.Sync.RetentionSeconds == 0 {
		t.Error("expected default retention to be applied")
	}
	if cfg.Connectivity.ProbeURL != cfg.Sync.Endpoint {
		t.Errorf("expected probe url to default to sync endpoint, got %s", cfg.Connectivity.ProbeURL)
	}
	if cfg.Sync.MaxAttempts != 1 {
		t.Errorf("expected default max_attempts 1, got %d", cfg.Sync.MaxAttempts)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SYNC_ENDPOINT", "https://staging.mariia-hub.com/sync")

	yamlContent := `
sync:
  endpoint: "${SYNC_ENDPOINT}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Sync.Endpoint != "https://staging.mariia-hub.com/sync" {
		t.Errorf("env expansion failed, got %s", cfg.Sync.Endpoint)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Sync:    SyncConfig{Endpoint: "https://example.com"},
				Storage: StorageConfig{Backend: "file"},
			},
			wantErr: false,
		},
		{
			name: "missing endpoint",
			cfg: Config{
				Storage: StorageConfig{Backend: "file"},
			},
			wantErr: true,
		},
		{
			name: "unknown backend",
			cfg: Config{
				Sync:    SyncConfig{Endpoint: "https://example.com"},
				Storage: StorageConfig{Backend: "cassandra"},
			},
			wantErr: true,
		},
		{
			name: "redis backend without address",
			cfg: Config{
				Sync:    SyncConfig{Endpoint: "https://example.com"},
				Storage: StorageConfig{Backend: "redis"},
			},
			wantErr: true,
		},
		{
			name: "telegram enabled without token",
			cfg: Config{
				Sync:    SyncConfig{Endpoint: "https://example.com"},
				Storage: StorageConfig{Backend: "file"},
				Notify:  NotifyConfig{Telegram: TelegramConfig{Enabled: true}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
