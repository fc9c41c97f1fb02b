// Package export flattens indexed host meshes into per-corner vertex buffers
// and serializes them as g3dt rigid text models.
//
// A run is strictly sequential: each object is collected, flattened,
// transformed and written before the next one is read.
package export

import "fmt"

// FormatVersion is the first line of every exported file.
const FormatVersion = "g3dt-rigid-1.0"

// DefaultPrecision is the number of fractional digits written per component.
const DefaultPrecision = 6

// MaxPrecision bounds Options.Precision.
const MaxPrecision = 12

// Options configures one export run. It is not modified by the exporter.
type Options struct {
	// SelectionOnly restricts the run to objects the host reports as selected.
	SelectionOnly bool
	// ApplyModifiers asks the host for the deformed mesh snapshot.
	ApplyModifiers bool
	// UseNormals adds a normal attribute.
	UseNormals bool
	// UseFaceNormals takes the normal attribute from the face instead of the vertex.
	// It has no effect without UseNormals.
	UseFaceNormals bool
	// UseUVs adds one uv attribute per UV channel.
	UseUVs bool
	// InvertUVs replaces v with 1-v.
	InvertUVs bool
	// UseYUp relabels position and normal axes from (x, y, z) to (y, z, x).
	UseYUp bool
	// Precision is the number of fractional digits per component.
	Precision int
}

// DefaultOptions returns the conventional exporter settings.
func DefaultOptions() Options {
	return Options{
		ApplyModifiers: true,
		UseNormals:     true,
		UseUVs:         true,
		InvertUVs:      true,
		UseYUp:         true,
		Precision:      DefaultPrecision,
	}
}

// Validate reports option values the exporter cannot honor.
func (o Options) Validate() error {
	if o.Precision < 0 || o.Precision > MaxPrecision {
		return fmt.Errorf("precision %d outside [0, %d]", o.Precision, MaxPrecision)
	}
	return nil
}
