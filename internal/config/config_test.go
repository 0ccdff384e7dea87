package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.SourceLang != DefaultSourceLang {
		t.Errorf("SourceLang = %q", cfg.SourceLang)
	}
	if cfg.TargetLang != DefaultTargetLang {
		t.Errorf("TargetLang = %q", cfg.TargetLang)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.MinFontSize != DefaultMinFontSize || cfg.MaxFontSize != DefaultMaxFontSize {
		t.Errorf("font range = [%g, %g]", cfg.MinFontSize, cfg.MaxFontSize)
	}
	if cfg.AggMaxChars != DefaultAggMaxChars || cfg.AggMaxItems != DefaultAggMaxItems {
		t.Errorf("agg budgets = %d, %d", cfg.AggMaxChars, cfg.AggMaxItems)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"target_lang": "fa", "min_font_size": 9, "backend": "llm"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.GetConfig()
	if cfg.MinFontSize != 9 {
		t.Errorf("MinFontSize = %g, want 9", cfg.MinFontSize)
	}
	if cfg.Backend != "llm" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	// Unset fields fall back to defaults.
	if cfg.SourceLang != DefaultSourceLang {
		t.Errorf("SourceLang = %q", cfg.SourceLang)
	}
	if cfg.MaxCharsPerChunk != DefaultMaxCharsPerChunk {
		t.Errorf("MaxCharsPerChunk = %d", cfg.MaxCharsPerChunk)
	}
}

func TestLoadInvalidJSONFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load should not fail on invalid JSON: %v", err)
	}
	if got := m.GetConfig().Backend; got != DefaultBackend {
		t.Errorf("Backend = %q", got)
	}
}

func TestLoadClampsInvertedFontRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"min_font_size": 12, "max_font_size": 8}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.GetConfig()
	if cfg.MaxFontSize < cfg.MinFontSize {
		t.Errorf("font range stayed inverted: [%g, %g]", cfg.MinFontSize, cfg.MaxFontSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := m.GetConfig()
	cfg.FontPath = "fonts/Vazirmatn-Regular.ttf"
	cfg.ShrinkToFit = true

	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := reloaded.GetConfig()
	if got.FontPath != "fonts/Vazirmatn-Regular.ttf" {
		t.Errorf("FontPath = %q", got.FontPath)
	}
	if !got.ShrinkToFit {
		t.Error("ShrinkToFit lost on round trip")
	}
}

func TestGetAPIKeyEnvFallback(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Setenv(EnvOpenAIAPIKey, "env-key")
	if got := m.GetAPIKey(); got != "env-key" {
		t.Errorf("GetAPIKey = %q, want env fallback", got)
	}

	m.GetConfig().OpenAIAPIKey = "file-key"
	if got := m.GetAPIKey(); got != "file-key" {
		t.Errorf("GetAPIKey = %q, want file value to win", got)
	}
}
