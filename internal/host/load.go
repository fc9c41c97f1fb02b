// Package host adapts model files to the scene interfaces consumed by the
// exporter. RSM models and Wavefront OBJ files are supported, read from disk
// or from a GRF archive.
package host

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshexport/internal/model"
	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/grf"
	"github.com/Faultbox/meshexport/pkg/mesh"
)

// ErrUnknownFormat is returned for files that are neither RSM nor OBJ.
var ErrUnknownFormat = errors.New("unknown model format")

// Format identifies a supported model file type.
type Format string

const (
	FormatRSM Format = "rsm"
	FormatOBJ Format = "obj"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rsm":
		return FormatRSM, nil
	case ".obj":
		return FormatOBJ, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Loader reads model files into scenes. With an Archive set, paths are
// resolved inside the archive instead of on disk.
type Loader struct {
	Archive *grf.Archive
	Logger  *zap.Logger
}

func (l *Loader) log() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// Load reads and parses path.
func (l *Loader) Load(path string) (*mesh.Collection, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var scene *mesh.Collection
	switch format {
	case FormatRSM:
		scene, err = l.loadRSM(data)
	case FormatOBJ:
		scene, err = l.loadOBJ(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l.log().Debug("Model loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("objects", len(scene.Nodes)))
	return scene, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	if l.Archive != nil {
		return l.Archive.Read(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return data, nil
}

func (l *Loader) loadRSM(data []byte) (*mesh.Collection, error) {
	rsm, err := formats.ParseRSM(data)
	if err != nil {
		return nil, err
	}
	if model.HasAnimation(rsm) {
		l.log().Warn("Model is animated, exporting static pose",
			zap.Int32("animLengthMs", rsm.AnimLength))
	}
	l.log().Debug("RSM parsed",
		zap.String("version", rsm.Version.String()),
		zap.Int("nodes", len(rsm.Nodes)),
		zap.Int("faces", rsm.FaceCount()),
		zap.Strings("textures", rsm.Textures))
	return FromRSM(rsm)
}

func (l *Loader) loadOBJ(data []byte) (*mesh.Collection, error) {
	obj, err := formats.ParseOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return FromOBJ(obj), nil
}
