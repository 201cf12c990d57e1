package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Cipher.Shift != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[cipher]
alphabet = "abc"
shift = 5

[word]
mode = "sequence"
sequence = "1,5,13,2"
seed = 99

[analysis]
save-plots = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cipher.Alphabet == nil || *cfg.Cipher.Alphabet != "abc" {
		t.Fatalf("unexpected alphabet %v", cfg.Cipher.Alphabet)
	}
	if cfg.Cipher.Shift == nil || *cfg.Cipher.Shift != 5 {
		t.Fatalf("unexpected shift %v", cfg.Cipher.Shift)
	}
	if cfg.Word.Seed == nil || *cfg.Word.Seed != 99 {
		t.Fatalf("unexpected seed %v", cfg.Word.Seed)
	}
	if cfg.Analysis.SavePlots == nil || !*cfg.Analysis.SavePlots {
		t.Fatalf("expected save-plots true")
	}
	if cfg.Cipher.KeepNonAlpha != nil {
		t.Fatalf("expected keep-non-alpha unset")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cipher]\nshfit = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "shfit") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "shiftcrack", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "shiftcrack", "shiftcrack.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
