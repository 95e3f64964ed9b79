package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assemble.Compress {
		t.Error("Expected Compress=false")
	}
	if cfg.Assemble.Entry != "0x00000000" {
		t.Errorf("Expected Entry=0x00000000, got %s", cfg.Assemble.Entry)
	}
	if cfg.Assemble.PadTo != 0 {
		t.Errorf("Expected PadTo=0, got %d", cfg.Assemble.PadTo)
	}

	if cfg.Output.Format != "bin" {
		t.Errorf("Expected Format=bin, got %s", cfg.Output.Format)
	}
	if cfg.Output.Listing {
		t.Error("Expected Listing=false")
	}

	if !cfg.Diagnostics.WarnUnusedLabels {
		t.Error("Expected WarnUnusedLabels=true")
	}
	if !cfg.Diagnostics.WarnUnusedConsts {
		t.Error("Expected WarnUnusedConsts=true")
	}
	if !cfg.Diagnostics.Color {
		t.Error("Expected Color=true")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "asm.toml" {
		t.Errorf("Expected path to end with asm.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "asm.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "rv32asm" && path != "asm.toml" {
			t.Errorf("Expected path in rv32asm directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_asm.toml")

	cfg := DefaultConfig()
	cfg.Assemble.Compress = true
	cfg.Assemble.Entry = "0x00008000"
	cfg.Assemble.PadTo = 256
	cfg.Output.Format = "hex"
	cfg.Output.Listing = true
	cfg.Diagnostics.Color = false

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !loaded.Assemble.Compress {
		t.Error("Expected Compress=true")
	}
	if loaded.Assemble.Entry != "0x00008000" {
		t.Errorf("Expected Entry=0x00008000, got %s", loaded.Assemble.Entry)
	}
	if loaded.Assemble.PadTo != 256 {
		t.Errorf("Expected PadTo=256, got %d", loaded.Assemble.PadTo)
	}
	if loaded.Output.Format != "hex" {
		t.Errorf("Expected Format=hex, got %s", loaded.Output.Format)
	}
	if !loaded.Output.Listing {
		t.Error("Expected Listing=true")
	}
	if loaded.Diagnostics.Color {
		t.Error("Expected Color=false")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Assemble.Entry != "0x00000000" {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[assemble]
pad_to = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "asm.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
