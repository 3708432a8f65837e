package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
tool:
  binary: "/usr/local/bin/mogrify"
  timeout: 30s

fixtures:
  data_dir: "features/support/data"
  output_dir: "tmp/altered"

compare:
  enabled: true
  threshold: 6
  scratch_dir: "/var/tmp"
  ensure_compressed: true

logging:
  level: debug
  json: true
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	// Load config
	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Validate fields
	if cfg.Tool.Binary != "/usr/local/bin/mogrify" {
		t.Errorf("Expected binary '/usr/local/bin/mogrify', got '%s'", cfg.Tool.Binary)
	}

	if cfg.Tool.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.Tool.Timeout)
	}

	if cfg.Fixtures.OutputDir != "tmp/altered" {
		t.Errorf("Expected output_dir 'tmp/altered', got '%s'", cfg.Fixtures.OutputDir)
	}

	if !cfg.Compare.Enabled || cfg.Compare.Threshold != 6 {
		t.Errorf("Expected compare enabled with threshold 6, got %+v", cfg.Compare)
	}

	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("Expected debug JSON logging, got %+v", cfg.Logging)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("compare:\n  enabled: false\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Tool.Binary != "mogrify" {
		t.Errorf("Expected default binary 'mogrify', got '%s'", cfg.Tool.Binary)
	}
	if cfg.Tool.Timeout != 0 {
		t.Errorf("Expected no timeout by default, got %v", cfg.Tool.Timeout)
	}
	if cfg.Compare.Threshold != 10 {
		t.Errorf("Expected default threshold 10, got %d", cfg.Compare.Threshold)
	}
	if cfg.Compare.ScratchDir != os.TempDir() {
		t.Errorf("Expected scratch dir %s, got %s", os.TempDir(), cfg.Compare.ScratchDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "IMAGESTEPS_FIXTURES_DATA_DIR=from-dotenv\nIMAGESTEPS_COMPARE_THRESHOLD=4\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create env file: %v", err)
	}
	t.Setenv("IMAGESTEPS_TOOL_BINARY", "magick-mogrify")
	t.Setenv("IMAGESTEPS_COMPARE_ENABLED", "true")
	// Registered for cleanup so values loaded from the file are unset afterwards
	t.Setenv("IMAGESTEPS_FIXTURES_DATA_DIR", "")
	t.Setenv("IMAGESTEPS_COMPARE_THRESHOLD", "")
	os.Unsetenv("IMAGESTEPS_FIXTURES_DATA_DIR")
	os.Unsetenv("IMAGESTEPS_COMPARE_THRESHOLD")

	cfg := Default()
	if err := LoadEnv(cfg, envFile); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Tool.Binary != "magick-mogrify" {
		t.Errorf("Expected binary from environment, got '%s'", cfg.Tool.Binary)
	}
	if !cfg.Compare.Enabled {
		t.Error("Expected compare to be enabled from environment")
	}
	if cfg.Fixtures.DataDir != "from-dotenv" {
		t.Errorf("Expected data dir from .env, got '%s'", cfg.Fixtures.DataDir)
	}
	if cfg.Compare.Threshold != 4 {
		t.Errorf("Expected threshold 4 from .env, got %d", cfg.Compare.Threshold)
	}
}

func TestLoadEnvInvalidValue(t *testing.T) {
	t.Setenv("IMAGESTEPS_COMPARE_THRESHOLD", "many")

	if err := LoadEnv(Default(), ""); err == nil {
		t.Error("Expected error for non-numeric threshold")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  *Default(),
			wantErr: false,
		},
		{
			name: "missing binary",
			config: Config{
				Fixtures: FixturesConfig{DataDir: "data"},
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			config: Config{
				Tool:     ToolConfig{Binary: "mogrify", Timeout: -time.Second},
				Fixtures: FixturesConfig{DataDir: "data"},
			},
			wantErr: true,
		},
		{
			name: "negative threshold",
			config: Config{
				Tool:     ToolConfig{Binary: "mogrify"},
				Fixtures: FixturesConfig{DataDir: "data"},
				Compare:  CompareConfig{Threshold: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
