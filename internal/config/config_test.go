package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meshexport/pkg/export"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if got, want := cfg.ExportOptions(), export.DefaultOptions(); got != want {
		t.Errorf("default export options = %+v, want %+v", got, want)
	}
	if cfg.Export.SelectionOnly {
		t.Error("expected selection_only to be false by default")
	}
	if cfg.Output.Extension != ".g3dt" {
		t.Errorf("expected extension .g3dt, got %s", cfg.Output.Extension)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
export:
  selection_only: true
  selection: [Tree, Rock]
  apply_modifiers: false
  use_normals: false
  use_face_normals: true
  invert_uvs: false
  precision: 3

output:
  path: "out.g3dt"

input:
  grf_path: "data.grf"

logging:
  level: "debug"
  log_file: "export.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	e := cfg.Export
	if !e.SelectionOnly || strings.Join(e.Selection, ",") != "Tree,Rock" {
		t.Errorf("selection = %v (only=%v)", e.Selection, e.SelectionOnly)
	}
	if e.ApplyModifiers || e.UseNormals || e.InvertUVs {
		t.Error("expected modifiers, normals and uv inversion to be disabled")
	}
	if !e.UseFaceNormals {
		t.Error("expected face normals to be enabled")
	}
	// Keys absent from the file keep their defaults.
	if !e.UseUVs || !e.UseYUp {
		t.Error("expected uvs and y-up to keep their defaults")
	}
	if e.Precision != 3 {
		t.Errorf("expected precision 3, got %d", e.Precision)
	}
	if cfg.Output.Path != "out.g3dt" || cfg.Input.GRFPath != "data.grf" {
		t.Errorf("paths = %q, %q", cfg.Output.Path, cfg.Input.GRFPath)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "export.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "export:\n  precision: not a number\n  invalid syntax here\n"},
		{"unknown key", "export:\n  use_colors: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(empty, nil, 0644)
	if err := loadFromFile(Default(), empty); err != nil {
		t.Errorf("empty config file: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	original := Default()
	original.Export.Precision = 4
	original.Export.UseYUp = false
	original.Export.Selection = []string{"a"}
	original.Logging.Level = "warn"

	if err := original.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.ExportOptions() != original.ExportOptions() {
		t.Errorf("export options = %+v, want %+v", loaded.ExportOptions(), original.ExportOptions())
	}
	if loaded.Logging.Level != "warn" || len(loaded.Export.Selection) != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	for _, want := range []string{"export:", "  use_y_up: true", "  precision: 6", "  extension:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(strings.ToLower(dir), "meshexport") {
		t.Errorf("ConfigDir should contain 'meshexport', got %s", dir)
	}
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "no flags keep defaults",
			verify: func(t *testing.T, cfg *Config) {
				if cfg.ExportOptions() != export.DefaultOptions() {
					t.Errorf("options = %+v", cfg.ExportOptions())
				}
			},
		},
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected debug level, got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "disable attributes",
			args: []string{"-no-normals", "-no-uvs", "-no-invert-uvs", "-no-y-up", "-no-modifiers"},
			verify: func(t *testing.T, cfg *Config) {
				want := export.Options{Precision: export.DefaultPrecision}
				if got := cfg.ExportOptions(); got != want {
					t.Errorf("options = %+v, want %+v", got, want)
				}
			},
		},
		{
			name: "selection",
			args: []string{"-select", " Tree, ,Rock "},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Export.SelectionOnly || strings.Join(cfg.Export.Selection, "|") != "Tree|Rock" {
					t.Errorf("selection = %q (only=%v)", cfg.Export.Selection, cfg.Export.SelectionOnly)
				}
			},
		},
		{
			name: "precision zero",
			args: []string{"-precision", "0", "-face-normals"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Precision != 0 || !cfg.Export.UseFaceNormals {
					t.Errorf("export = %+v", cfg.Export)
				}
			},
		},
		{
			name: "paths",
			args: []string{"-o", "-", "-grf", "data.grf", "-log-file", "x.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Path != "-" || cfg.Input.GRFPath != "data.grf" || cfg.Logging.LogFile != "x.log" {
					t.Errorf("cfg = %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			parseFlags(t, tt.args...).apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
export:
  precision: 2
  use_normals: false
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(parseFlags(t, "-config", configPath, "-precision", "8"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	// Precision from flag (8), not file (2).
	if cfg.Export.Precision != 8 {
		t.Errorf("expected precision 8 from flag, got %d", cfg.Export.Precision)
	}
	// Normals from file since no flag override.
	if cfg.Export.UseNormals {
		t.Error("expected use_normals false from file")
	}

	if _, err := Load(parseFlags(t, "-config", configPath, "-precision", "99")); err == nil {
		t.Error("expected error for out-of-range precision")
	}
	if _, err := Load(parseFlags(t, "-config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name    string
		only    bool
		names   []string
		wantErr bool
	}{
		{"all objects", false, nil, false},
		{"names without selection_only", false, []string{"a"}, false},
		{"selected names", true, []string{"a", "b"}, false},
		{"selection_only without names", true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Export.SelectionOnly = tt.only
			cfg.Export.Selection = tt.names
			err := cfg.Validate()
			if tt.wantErr != errors.Is(err, ErrEmptySelection) {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  selection_only: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(parseFlags(t, "-config", configPath)); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("Load() = %v, want %v", err, ErrEmptySelection)
	}
	if _, err := Load(parseFlags(t, "-config", configPath, "-select", " , ")); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("Load() with blank -select = %v, want %v", err, ErrEmptySelection)
	}
	if _, err := Load(parseFlags(t, "-config", configPath, "-select", "Tree")); err != nil {
		t.Errorf("Load() with -select failed: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		input  string
		want   string
	}{
		{"derived", nil, filepath.Join("models", "tree.rsm"), filepath.Join("models", "tree.g3dt")},
		{"explicit", func(c *Config) { c.Output.Path = "out.txt" }, "tree.rsm", "out.txt"},
		{"extension without dot", func(c *Config) { c.Output.Extension = "txt" }, "tree.obj", "tree.txt"},
		{"from archive", func(c *Config) { c.Input.GRFPath = "data.grf" }, "data/model/tree.rsm", "tree.g3dt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			if got := cfg.OutputPath(tt.input); got != tt.want {
				t.Errorf("OutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
