package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RasterDPI != 300 {
		t.Errorf("RasterDPI = %d", cfg.RasterDPI)
	}
	if len(cfg.OCRLanguages) != 1 || cfg.OCRLanguages[0] != "eng" {
		t.Errorf("OCRLanguages = %v", cfg.OCRLanguages)
	}
	if cfg.EnrichedNER {
		t.Error("EnrichedNER should default off")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transmatch.yaml")
	body := "raster_dpi: 150\nocr_languages:\n  - eng\n  - msa\nenriched_ner: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RasterDPI != 150 {
		t.Errorf("RasterDPI = %d", cfg.RasterDPI)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[1] != "msa" {
		t.Errorf("OCRLanguages = %v", cfg.OCRLanguages)
	}
	if !cfg.EnrichedNER {
		t.Error("EnrichedNER should be on")
	}
	// Untouched keys keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("explicitly named missing config should error")
	}
}

func TestModelDir(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{EmbedModelDir: dir}
	if got := cfg.ModelDir(); got != dir {
		t.Errorf("ModelDir = %q, want %q", got, dir)
	}

	// A configured but absent directory falls back to the user cache.
	cfg = Config{EmbedModelDir: filepath.Join(dir, "missing")}
	if got := cfg.ModelDir(); got == cfg.EmbedModelDir {
		t.Errorf("ModelDir should not return a missing directory, got %q", got)
	}
}
