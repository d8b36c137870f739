package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"cstrgen/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

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

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	gen := cfg.Generator
	if gen.Narrowing != common.NarrowingPolicyStrict {
		t.Errorf("Narrowing = %v, want strict", gen.Narrowing)
	}
	if gen.Visibility != common.VisibilityPublic {
		t.Errorf("Visibility = %v, want public", gen.Visibility)
	}
	if !gen.SuppressUnusedWarning || !gen.SuppressNamingWarning {
		t.Error("diagnostics suppression should be enabled by default")
	}
	if gen.WrapWidth != 16 {
		t.Errorf("WrapWidth = %d, want 16", gen.WrapWidth)
	}
	if len(gen.SourceExtensions) != 1 || gen.SourceExtensions[0] != ".cstr" {
		t.Errorf("SourceExtensions = %v, want [.cstr]", gen.SourceExtensions)
	}
	if gen.Rust.CharType != "libc::c_char" {
		t.Errorf("Rust.CharType = %q", gen.Rust.CharType)
	}
	if gen.C.CharType != "char" {
		t.Errorf("C.CharType = %q", gen.C.CharType)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
generator:
  narrowing: charset
  charset: windows-1252
  visibility: private
  wrap_width: 0
  source_extensions: [".cstr", ".strings"]
  output_name_template: "{{ .Source }}_gen"
  rust:
    unsafe_attributes: true
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	gen := cfg.Generator
	if gen.Narrowing != common.NarrowingPolicyCharset {
		t.Errorf("Narrowing = %v, want charset", gen.Narrowing)
	}
	if gen.Charset != "windows-1252" {
		t.Errorf("Charset = %q", gen.Charset)
	}
	if gen.Visibility != common.VisibilityPrivate {
		t.Errorf("Visibility = %v, want private", gen.Visibility)
	}
	if gen.WrapWidth != 0 {
		t.Errorf("WrapWidth = %d, want 0", gen.WrapWidth)
	}
	if len(gen.SourceExtensions) != 2 {
		t.Errorf("SourceExtensions = %v", gen.SourceExtensions)
	}
	if gen.OutputNameTemplate != "{{ .Source }}_gen" {
		t.Errorf("OutputNameTemplate was expanded: %q", gen.OutputNameTemplate)
	}
	if !gen.Rust.UnsafeAttributes {
		t.Error("Rust.UnsafeAttributes should be true")
	}
	// untouched values keep defaults
	if gen.Rust.CharType != "libc::c_char" {
		t.Errorf("Rust.CharType = %q, want default", gen.Rust.CharType)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ngenerator:\n  narrowing: strict\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"wrong version", "version: 2\n"},
		{"unknown policy", "version: 1\ngenerator:\n  narrowing: lossy\n"},
		{"charset required", "version: 1\ngenerator:\n  narrowing: charset\n"},
		{"negative wrap", "version: 1\ngenerator:\n  wrap_width: -1\n"},
		{"empty extensions", "version: 1\ngenerator:\n  source_extensions: []\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
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

	cfg := &Config{}
	if _, err = unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Generator.Narrowing = common.NarrowingPolicyTruncate

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	// enums are dumped by name
	if !strings.Contains(string(data), "narrowing: truncate") {
		t.Errorf("Dump() does not contain narrowing by name:\n%s", data)
	}

	cfg2 := &Config{}
	if _, err = unmarshalConfig(data, cfg2, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Generator.Narrowing != common.NarrowingPolicyTruncate {
		t.Errorf("Narrowing after dump/load = %v, want truncate", cfg2.Generator.Narrowing)
	}
}
