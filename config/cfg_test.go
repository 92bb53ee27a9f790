package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestLoadConfiguration_Defaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.Spans.Enable {
		t.Error("Spans.Enable should default to true")
	}
	if cfg.Document.Spans.Scope != ProcessScopeAll {
		t.Errorf("Spans.Scope = %v, want %v", cfg.Document.Spans.Scope, ProcessScopeAll)
	}
	if cfg.Document.Headings.Enable {
		t.Error("Headings.Enable should default to false")
	}
	if cfg.Document.Headings.Prefix != "Chapter" {
		t.Errorf("Headings.Prefix = %q, want %q", cfg.Document.Headings.Prefix, "Chapter")
	}
	if cfg.Document.Headings.Style != NumberingStyleNumeric {
		t.Errorf("Headings.Style = %v, want %v", cfg.Document.Headings.Style, NumberingStyleNumeric)
	}
	if cfg.Document.Headings.Start != 1 {
		t.Errorf("Headings.Start = %d, want 1", cfg.Document.Headings.Start)
	}
	if cfg.Document.FixZip {
		t.Error("FixZip should default to false")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  fix_zip: true
  file_name_transliterate: true
  spans:
    enable: false
    scope: current
  headings:
    enable: true
    scope: onwards
    prefix: "Part"
    style: roman
    start: 3
    after: "of the story"
    insert_non_empty: true
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.FixZip {
		t.Error("Expected FixZip to be true")
	}
	if cfg.Document.Spans.Enable {
		t.Error("Expected Spans.Enable to be false")
	}
	if cfg.Document.Spans.Scope != ProcessScopeCurrent {
		t.Errorf("Spans.Scope = %v, want %v", cfg.Document.Spans.Scope, ProcessScopeCurrent)
	}
	if cfg.Document.Headings.Scope != ProcessScopeOnwards {
		t.Errorf("Headings.Scope = %v, want %v", cfg.Document.Headings.Scope, ProcessScopeOnwards)
	}
	if cfg.Document.Headings.Prefix != "Part" {
		t.Errorf("Headings.Prefix = %q, want %q", cfg.Document.Headings.Prefix, "Part")
	}
	if cfg.Document.Headings.Style != NumberingStyleRoman {
		t.Errorf("Headings.Style = %v, want %v", cfg.Document.Headings.Style, NumberingStyleRoman)
	}
	if cfg.Document.Headings.Start != 3 {
		t.Errorf("Headings.Start = %d, want 3", cfg.Document.Headings.Start)
	}
	if cfg.Document.Headings.After != "of the story" {
		t.Errorf("Headings.After = %q, want %q", cfg.Document.Headings.After, "of the story")
	}
	if !cfg.Document.Headings.InsertNonEmpty {
		t.Error("Expected Headings.InsertNonEmpty to be true")
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
document:
  fix_zip: true
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid version", "version: 2\n"},
		{"zero chapter start", `version: 1
document:
  headings:
    start: 0
`},
		{"empty prefix with headings enabled", `version: 1
document:
  headings:
    enable: true
    prefix: ""
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	// Partial config that only overrides some values
	partialConfig := `version: 1
document:
  fix_zip: true
`

	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.FixZip {
		t.Error("Expected FixZip to be true from config file")
	}

	// defaults should survive for unspecified fields
	if cfg.Document.Headings.Prefix != "Chapter" {
		t.Errorf("Headings.Prefix = %q, want default %q", cfg.Document.Headings.Prefix, "Chapter")
	}
	if !cfg.Document.Spans.Enable {
		t.Error("Spans.Enable should keep default true")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Document: DocumentConfig{
			FixZip: true,
			Spans: SpansConfig{
				Enable: true,
				Scope:  ProcessScopeAll,
			},
			Headings: HeadingsConfig{
				Enable: true,
				Prefix: "Chapter",
				Style:  NumberingStyleWords,
				Start:  1,
			},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Document.Headings.Style != NumberingStyleWords {
		t.Errorf("Style mismatch after dump/load: got %v, want %v", cfg2.Document.Headings.Style, NumberingStyleWords)
	}
}
