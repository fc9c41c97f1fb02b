// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshexport/pkg/export"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Output  OutputConfig  `yaml:"output"`
	Input   InputConfig   `yaml:"input"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig mirrors export.Options plus the object selection.
type ExportConfig struct {
	SelectionOnly  bool     `yaml:"selection_only"`
	Selection      []string `yaml:"selection"` // object names to mark selected
	ApplyModifiers bool     `yaml:"apply_modifiers"`
	UseNormals     bool     `yaml:"use_normals"`
	UseFaceNormals bool     `yaml:"use_face_normals"`
	UseUVs         bool     `yaml:"use_uvs"`
	InvertUVs      bool     `yaml:"invert_uvs"`
	UseYUp         bool     `yaml:"use_y_up"`
	Precision      int      `yaml:"precision"`
}

// OutputConfig controls where exports are written.
type OutputConfig struct {
	Path      string `yaml:"path"`      // "-" for stdout; empty derives from the input
	Extension string `yaml:"extension"` // used when Path is empty
}

// InputConfig controls where models are read from.
type InputConfig struct {
	GRFPath string `yaml:"grf_path"` // resolve inputs inside this archive
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the conventional exporter settings.
func Default() *Config {
	opts := export.DefaultOptions()
	return &Config{
		Export: ExportConfig{
			SelectionOnly:  opts.SelectionOnly,
			ApplyModifiers: opts.ApplyModifiers,
			UseNormals:     opts.UseNormals,
			UseFaceNormals: opts.UseFaceNormals,
			UseUVs:         opts.UseUVs,
			InvertUVs:      opts.InvertUVs,
			UseYUp:         opts.UseYUp,
			Precision:      opts.Precision,
		},
		Output: OutputConfig{
			Extension: ".g3dt",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ExportOptions converts the export section to export.Options.
func (c *Config) ExportOptions() export.Options {
	e := c.Export
	return export.Options{
		SelectionOnly:  e.SelectionOnly,
		ApplyModifiers: e.ApplyModifiers,
		UseNormals:     e.UseNormals,
		UseFaceNormals: e.UseFaceNormals,
		UseUVs:         e.UseUVs,
		InvertUVs:      e.InvertUVs,
		UseYUp:         e.UseYUp,
		Precision:      e.Precision,
	}
}

// ErrEmptySelection is returned when selection_only is set but no object
// names are given, which would always export zero objects.
var ErrEmptySelection = errors.New("selection_only is set but selection names no objects")

// Validate reports settings the exporter cannot honor.
func (c *Config) Validate() error {
	if c.Export.SelectionOnly && len(c.Export.Selection) == 0 {
		return ErrEmptySelection
	}
	return c.ExportOptions().Validate()
}

// OutputPath returns the export destination for input.
func (c *Config) OutputPath(input string) string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	ext := c.Output.Extension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	// Archive paths use forward slashes; write next to the working directory.
	if c.Input.GRFPath != "" {
		input = filepath.Base(filepath.FromSlash(input))
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
