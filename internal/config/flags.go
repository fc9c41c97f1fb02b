package config

import (
	"flag"
	"strings"
)

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	Config      string
	Debug       bool
	Output      string
	Select      string
	NoModifiers bool
	NoNormals   bool
	FaceNormals bool
	NoUVs       bool
	NoInvertUVs bool
	NoYUp       bool
	Precision   int
	GRF         string
	LogFile     string
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Output, "o", "", "Output path (\"-\" for stdout)")
	fs.StringVar(&f.Select, "select", "", "Comma-separated object names; export only these")
	fs.BoolVar(&f.NoModifiers, "no-modifiers", false, "Export raw node geometry without transforms")
	fs.BoolVar(&f.NoNormals, "no-normals", false, "Omit the normal attribute")
	fs.BoolVar(&f.FaceNormals, "face-normals", false, "Use face normals instead of vertex normals")
	fs.BoolVar(&f.NoUVs, "no-uvs", false, "Omit uv attributes")
	fs.BoolVar(&f.NoInvertUVs, "no-invert-uvs", false, "Keep v as stored instead of writing 1-v")
	fs.BoolVar(&f.NoYUp, "no-y-up", false, "Keep the source axis order")
	fs.IntVar(&f.Precision, "precision", -1, "Fractional digits per component")
	fs.StringVar(&f.GRF, "grf", "", "Read inputs from this GRF archive")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply copies the flags that were set onto cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Output != "" {
		cfg.Output.Path = f.Output
	}
	if f.Select != "" {
		cfg.Export.Selection = splitNames(f.Select)
		cfg.Export.SelectionOnly = true
	}
	if f.NoModifiers {
		cfg.Export.ApplyModifiers = false
	}
	if f.NoNormals {
		cfg.Export.UseNormals = false
	}
	if f.FaceNormals {
		cfg.Export.UseFaceNormals = true
	}
	if f.NoUVs {
		cfg.Export.UseUVs = false
	}
	if f.NoInvertUVs {
		cfg.Export.InvertUVs = false
	}
	if f.NoYUp {
		cfg.Export.UseYUp = false
	}
	if f.Precision >= 0 {
		cfg.Export.Precision = f.Precision
	}
	if f.GRF != "" {
		cfg.Input.GRFPath = f.GRF
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
