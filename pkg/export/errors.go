package export

import (
	"errors"
	"fmt"
)

// Error kinds. Every export failure wraps exactly one of them.
var (
	// ErrConfiguration: options or attribute layout are inconsistent,
	// e.g. meshes with different UV channel counts.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmptyMesh: a mesh selected for export has no faces.
	ErrEmptyMesh = errors.New("empty mesh")
	// ErrHostAccess: geometry could not be read from the host.
	ErrHostAccess = errors.New("host access error")
	// ErrIO: the destination could not be created or written.
	ErrIO = errors.New("i/o error")
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageEnumerate Stage = "enumerate"
	StageMesh      Stage = "mesh"
	StageCollect   Stage = "collect"
	StageLayout    Stage = "layout"
	StageWrite     Stage = "write"
)

// Error describes a failed export run.
type Error struct {
	Kind   error  // one of the Err* kinds
	Object string // empty when the failure is not tied to an object
	Stage  Stage
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Stage != "" {
		msg += " during " + string(e.Stage)
	}
	if e.Object != "" {
		msg += fmt.Sprintf(" of %q", e.Object)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, stage Stage, object string, cause error) *Error {
	return &Error{Kind: kind, Stage: stage, Object: object, Err: cause}
}

func configErrorf(stage Stage, object, format string, args ...any) *Error {
	return newError(ErrConfiguration, stage, object, fmt.Errorf(format, args...))
}

// withObject fills in the object name of an *Error that does not have one yet.
func withObject(err error, object string) error {
	var e *Error
	if errors.As(err, &e) && e.Object == "" {
		e.Object = object
	}
	return err
}
