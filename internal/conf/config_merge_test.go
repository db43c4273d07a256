package conf

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// TestMissingKeysInDropin checks that keys a drop-in file does not set keep
// the value of the main config.
func TestMissingKeysInDropin(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	if err := os.Mkdir(dropinDir, 0755); err != nil {
		t.Fatalf("failed to create drop-in directory: %v", err)
	}

	mainConfig := `
log-level = "WARN"
log-format = "json"
journal = true
validate = true
cache = false
`
	if err := os.WriteFile(mainConfigPath, []byte(mainConfig), 0644); err != nil {
		t.Fatalf("failed to write main config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropinDir, "10-debug.toml"), []byte(`log-level = "DEBUG"`), 0644); err != nil {
		t.Fatalf("failed to write drop-in: %v", err)
	}

	cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.LogLevel != slog.LevelDebug {
		t.Errorf("expected LogLevel=DEBUG (overridden), got %v", config.LogLevel)
	}
	if config.LogFormat != FormatJSON {
		t.Errorf("expected LogFormat=json (preserved!), got %s", config.LogFormat)
	}
	if !config.Journal || !config.Validate {
		t.Errorf("expected journal and validate to stay enabled (preserved!), got %+v", config)
	}
	if config.Cache {
		t.Error("expected cache to stay disabled (preserved!)")
	}
}

// TestFalseOverwrite checks that a drop-in can turn a default-on setting off.
func TestFalseOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	if err := os.Mkdir(dropinDir, 0755); err != nil {
		t.Fatalf("failed to create drop-in directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dropinDir, "10-nocache.toml"), []byte("cache = false\n"), 0644); err != nil {
		t.Fatalf("failed to write drop-in: %v", err)
	}

	cs := &ConfigSource{Path: filepath.Join(tmpDir, "config.toml"), DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Cache {
		t.Error("cache was not overridden to false")
	}
}
