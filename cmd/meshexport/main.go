// meshexport flattens RSM and Wavefront OBJ models into g3dt rigid text files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Faultbox/meshexport/internal/config"
	"github.com/Faultbox/meshexport/internal/host"
	"github.com/Faultbox/meshexport/internal/logger"
	"github.com/Faultbox/meshexport/pkg/export"
	"github.com/Faultbox/meshexport/pkg/grf"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errors.New("no command given")
	}

	command, args := args[0], args[1:]
	switch command {
	case "export":
		return cmdExport(args, stdout, stderr)
	case "inspect":
		return cmdInspect(args, stdout, stderr)
	case "list", "ls":
		return cmdList(args, stdout, stderr)
	case "config":
		return cmdConfig(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshexport - flatten 3D models into g3dt rigid text files

Usage:
  meshexport <command> [options]

Commands:
  export [flags] <model.rsm|model.obj>   Export a model (see "export -h" for flags)
  inspect <file.g3dt>                    Print per-object statistics
  list -grf <file.grf> [pattern]         List models in an archive
  config [flags] [-save | path]          Write the effective configuration as YAML

Examples:
  meshexport export -o fountain.g3dt data/model/fountain.rsm
  meshexport export -grf data.grf -no-y-up data/model/prontera/fountain.rsm
  meshexport export -select Tree,Rock -o - scene.obj
  meshexport list -grf data.grf "data/model/prontera/*"`)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config.Load(flags)
}

func openArchive(path string) (*grf.Archive, error) {
	if path == "" {
		return nil, nil
	}
	return grf.Open(path)
}

func cmdExport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", stderr)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: meshexport export [flags] <model.rsm|model.obj>")
	}
	input := fs.Arg(0)

	if err := logger.InitWithFileConfig(cfg.Logging.Level, logFileConfig(cfg), stderr); err != nil {
		return err
	}
	defer logger.Close()

	archive, err := openArchive(cfg.Input.GRFPath)
	if err != nil {
		return err
	}
	if archive != nil {
		defer archive.Close()
	}

	loader := host.Loader{Archive: archive, Logger: logger.Log}
	scene, err := loader.Load(input)
	if err != nil {
		return err
	}
	logger.Debug("Model loaded",
		zap.String("input", input),
		zap.String("archive", cfg.Input.GRFPath),
		zap.Int("objects", len(scene.Nodes)))
	if len(cfg.Export.Selection) > 0 {
		for _, name := range scene.Select(cfg.Export.Selection...) {
			logger.Warn("Selected object not found", zap.String("object", name))
		}
	}

	exporter := export.New(cfg.ExportOptions())
	exporter.Logger = logger.Log

	output := cfg.OutputPath(input)
	if output == "-" {
		return exporter.Export(scene, stdout)
	}

	if isTerminal(stderr) {
		var bar *progressbar.ProgressBar
		exporter.Progress = func(done, total int, name string) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Describe(name)
			_ = bar.Set(done)
		}
		defer func() {
			if bar != nil {
				_ = bar.Finish()
			}
		}()
	}

	if err := exporter.ExportFile(scene, output); err != nil {
		return err
	}
	logger.Info("Export complete",
		zap.String("input", input),
		zap.String("output", output))
	return nil
}

func logFileConfig(cfg *config.Config) logger.FileConfig {
	if cfg.Logging.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(cfg.Logging.LogFile)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func cmdInspect(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("inspect", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: meshexport inspect <file.g3dt>")
	}

	doc, err := export.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "File:    %s\n", fs.Arg(0))
	fmt.Fprintf(stdout, "Version: %s\n", doc.Version)
	fmt.Fprintf(stdout, "Objects: %d\n\n", len(doc.Objects))

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFACES\tVERTICES\tATTRIBUTES\tCONTIGUOUS")
	for _, s := range doc.Stats() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%v\n",
			s.Name, s.Faces, s.Vertices, strings.Join(s.Attributes, ","), s.Contiguous)
	}
	return tw.Flush()
}

func cmdList(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("list", stderr)
	archivePath := fs.String("grf", "", "GRF archive to list")
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archivePath == "" || fs.NArg() > 1 {
		return errors.New("usage: meshexport list -grf <file.grf> [pattern]")
	}

	archive, err := grf.Open(*archivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	var files []string
	if fs.NArg() == 1 {
		if files, err = archive.Glob(fs.Arg(0)); err != nil {
			return fmt.Errorf("bad pattern %q: %w", fs.Arg(0), err)
		}
	} else {
		files = archive.List()
	}

	count := 0
	for _, f := range files {
		if _, err := host.DetectFormat(f); err != nil {
			continue
		}
		fmt.Fprintln(stdout, f)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}
	return nil
}

func cmdConfig(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("config", stderr)
	save := fs.Bool("save", false, "Write to the user config directory")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	switch {
	case *save && fs.NArg() == 0:
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return nil
	case fs.NArg() == 0:
		return cfg.Write(stdout)
	case fs.NArg() == 1 && !*save:
		return cfg.SaveTo(fs.Arg(0))
	default:
		return errors.New("usage: meshexport config [flags] [-save | path]")
	}
}
