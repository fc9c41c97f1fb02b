package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshexport/pkg/mesh"
)

// ProgressFunc is called after each object is written.
type ProgressFunc func(done, total int, name string)

// Exporter runs the export pipeline over a host scene.
type Exporter struct {
	Options Options
	// Logger receives stage and summary logs. Nil disables logging.
	Logger *zap.Logger
	// Progress is optional.
	Progress ProgressFunc
}

// New returns an Exporter with the given options and no logging.
func New(opts Options) *Exporter {
	return &Exporter{Options: opts}
}

func (e *Exporter) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Export writes every eligible object of scene to w. The run stops at the
// first error; whatever was already written to w must be treated as corrupt.
func (e *Exporter) Export(scene mesh.Scene, w io.Writer) error {
	opts := e.Options
	if err := opts.Validate(); err != nil {
		return newError(ErrConfiguration, StageEnumerate, "", err)
	}
	log := e.log()
	start := time.Now()

	objects, err := SelectObjects(scene, opts)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if strings.ContainsAny(obj.Name(), "\r\n") {
			return newError(ErrConfiguration, StageEnumerate, obj.Name(),
				errors.New("object name contains a line break"))
		}
	}
	log.Debug("Objects selected",
		zap.Int("count", len(objects)),
		zap.Bool("selectionOnly", opts.SelectionOnly))

	out := NewWriter(w, opts.Precision)
	if err := out.WriteHeader(len(objects)); err != nil {
		return newError(ErrIO, StageWrite, "", err)
	}

	var layout *Layout
	vertices := 0
	for i, obj := range objects {
		name := obj.Name()
		buf, err := e.flattenObject(obj, &layout)
		if err != nil {
			return withObject(err, name)
		}
		if err := out.WriteObject(name, buf); err != nil {
			return newError(ErrIO, StageWrite, name, err)
		}
		vertices += buf.VertexCount()
		log.Info("Object exported",
			zap.String("object", name),
			zap.Int("faces", len(buf.Faces)),
			zap.Int("vertices", buf.VertexCount()))
		if e.Progress != nil {
			e.Progress(i+1, len(objects), name)
		}
	}

	if err := out.Flush(); err != nil {
		return newError(ErrIO, StageWrite, "", err)
	}
	log.Debug("Export finished",
		zap.Int("objects", len(objects)),
		zap.Int("vertices", vertices),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// flattenObject runs collect, layout, flatten and transform for one object.
// The layout is resolved from the first object and reused for the rest.
func (e *Exporter) flattenObject(obj mesh.Object, layout **Layout) (*Buffer, error) {
	opts := e.Options
	log := e.log().With(zap.String("object", obj.Name()))

	src, err := obj.Mesh(opts.ApplyModifiers)
	if err != nil {
		return nil, newError(ErrHostAccess, StageMesh, "", err)
	}
	if src.FaceCount() == 0 {
		return nil, newError(ErrEmptyMesh, StageCollect, "", nil)
	}
	log.Debug("Mesh snapshot taken",
		zap.Int("faces", src.FaceCount()),
		zap.Int("vertices", src.VertexCount()),
		zap.Strings("uvChannels", src.UVChannels()))

	faces, err := CollectFaces(src)
	if err != nil {
		return nil, err
	}

	if *layout == nil {
		l, err := ResolveLayout(faces[0][0], opts)
		if err != nil {
			return nil, err
		}
		*layout = l
		log.Debug("Layout resolved",
			zap.Strings("attributes", l.Names()),
			zap.Bool("faceNormals", l.FaceNormals))
	}
	if err := (*layout).Check(faces); err != nil {
		return nil, err
	}

	buf := Flatten(faces, *layout)
	buf.Transform(opts)
	return buf, nil
}

// ExportFile exports scene to path. Output goes to a temporary file in the
// same directory that replaces path only when the whole run succeeded; on
// failure nothing is left behind.
func (e *Exporter) ExportFile(scene mesh.Scene, path string) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return newError(ErrIO, StageWrite, "", fmt.Errorf("creating output: %w", err))
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = e.Export(scene, tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return newError(ErrIO, StageWrite, "", fmt.Errorf("setting output mode: %w", err))
	}
	if err = tmp.Close(); err != nil {
		return newError(ErrIO, StageWrite, "", fmt.Errorf("closing output: %w", err))
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return newError(ErrIO, StageWrite, "", fmt.Errorf("renaming output: %w", err))
	}
	e.log().Debug("Output written", zap.String("path", path))
	return nil
}
