package export

import "fmt"

// AttributeKind is the semantic of a vertex attribute.
type AttributeKind int

const (
	AttrPosition AttributeKind = iota
	AttrNormal
	AttrUV
)

var attributeNames = [...]string{
	AttrPosition: "position",
	AttrNormal:   "normal",
	AttrUV:       "uv",
}

var attributeComponents = [...]int{
	AttrPosition: 3,
	AttrNormal:   3,
	AttrUV:       2,
}

// String returns the name written to the attribute block.
func (k AttributeKind) String() string {
	if k < 0 || int(k) >= len(attributeNames) {
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
	return attributeNames[k]
}

// Components returns the number of float components of the attribute.
func (k AttributeKind) Components() int {
	if k < 0 || int(k) >= len(attributeComponents) {
		return 0
	}
	return attributeComponents[k]
}

// ParseAttributeKind maps an attribute block line back to its kind.
func ParseAttributeKind(name string) (AttributeKind, bool) {
	for k, n := range attributeNames {
		if n == name {
			return AttributeKind(k), true
		}
	}
	return 0, false
}

// Attribute is one entry of a vertex layout. Channel is the UV channel index
// and is zero for other kinds.
type Attribute struct {
	Kind    AttributeKind
	Channel int
}

// Layout is the ordered attribute schema shared by every vertex of a run.
type Layout struct {
	Attributes []Attribute
	// FaceNormals selects the face normal as the normal attribute source.
	FaceNormals bool

	uvChannels int
	checkUVs   bool
}

// ResolveLayout derives the layout from the first corner of the first mesh:
// position always, normal iff UseNormals, one uv per channel iff UseUVs.
func ResolveLayout(first FaceCorner, opts Options) (*Layout, error) {
	if err := opts.Validate(); err != nil {
		return nil, newError(ErrConfiguration, StageLayout, "", err)
	}

	l := &Layout{
		Attributes:  []Attribute{{Kind: AttrPosition}},
		FaceNormals: opts.UseNormals && opts.UseFaceNormals,
		checkUVs:    opts.UseUVs,
	}
	if opts.UseNormals {
		l.Attributes = append(l.Attributes, Attribute{Kind: AttrNormal})
	}
	if opts.UseUVs {
		l.uvChannels = first.UVChannelCount()
		for ch := 0; ch < l.uvChannels; ch++ {
			l.Attributes = append(l.Attributes, Attribute{Kind: AttrUV, Channel: ch})
		}
	}
	return l, nil
}

// UVChannels returns the number of uv attributes.
func (l *Layout) UVChannels() int {
	return l.uvChannels
}

// Stride returns the number of components per vertex.
func (l *Layout) Stride() int {
	n := 0
	for _, a := range l.Attributes {
		n += a.Kind.Components()
	}
	return n
}

// Names returns the attribute names in layout order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.Attributes))
	for i, a := range l.Attributes {
		names[i] = a.Kind.String()
	}
	return names
}

// Check rejects corners whose UV channel count differs from the layout.
// Meshes are never truncated or padded to fit.
func (l *Layout) Check(faces [][]FaceCorner) error {
	if !l.checkUVs {
		return nil
	}
	for fi, corners := range faces {
		for ci, c := range corners {
			if n := c.UVChannelCount(); n != l.uvChannels {
				return configErrorf(StageLayout, "",
					"face %d corner %d has %d uv channels, layout has %d", fi, ci, n, l.uvChannels)
			}
		}
	}
	return nil
}

// Row concatenates the corner's components in layout order.
func (l *Layout) Row(c FaceCorner) []float32 {
	row := make([]float32, 0, l.Stride())
	for _, a := range l.Attributes {
		switch a.Kind {
		case AttrPosition:
			row = append(row, c.Position[:]...)
		case AttrNormal:
			n := c.Normal
			if l.FaceNormals {
				n = c.FaceNormal
			}
			row = append(row, n[:]...)
		case AttrUV:
			row = append(row, c.UVs[a.Channel][:]...)
		}
	}
	return row
}
