package formats

import (
	"errors"
	"fmt"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidRSMCount       = errors.New("invalid RSM element count")
)

// Upper bounds on element counts, used to reject corrupt headers early.
const (
	maxRSMTextures = 1000
	maxRSMNodes    = 10000
	maxRSMElements = 100000
	maxRSMKeys     = 10000
)

const rsmNameSize = 40

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSMTexCoord is a texture coordinate with its vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA (v1.2+, white before)
	U, V  float32
}

// RSMFace is a triangle.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16
	TwoSide     int32
	SmoothGroup int32 // v1.2+
}

// RSMPosKeyframe is a position keyframe (v < 1.5).
type RSMPosKeyframe struct {
	Frame    int32
	Position [3]float32
}

// RSMRotKeyframe is a rotation keyframe, quaternion stored as X, Y, Z, W.
type RSMRotKeyframe struct {
	Frame      int32
	Quaternion [4]float32
}

// RSMScaleKeyframe is a scale keyframe (v >= 1.5).
type RSMScaleKeyframe struct {
	Frame int32
	Scale [3]float32
}

// RSMNode is one mesh node of the model hierarchy.
type RSMNode struct {
	Name       string
	Parent     string // empty for the root
	TextureIDs []int32

	Matrix   [9]float32 // column-major 3x3, vertex-only
	Offset   [3]float32 // pivot, vertex-only
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe
}

// RSM is a parsed Resource Model file.
type RSM struct {
	Version    RSMVersion
	AnimLength int32 // milliseconds
	Shading    int32
	Alpha      float32
	Textures   []string
	RootNode   string
	Nodes      []RSMNode
}

// ParseRSM parses RSM data. Versions 1.1 through 1.5 are supported.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	rsm := &RSM{Version: RSMVersion{Major: data[4], Minor: data[5]}}
	if rsm.Version.Major != 1 || rsm.Version.Minor < 1 || rsm.Version.Minor > 5 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	r := newBinReader(data[6:], ErrTruncatedRSMData)
	r.read(&rsm.AnimLength)
	r.read(&rsm.Shading)

	rsm.Alpha = 1
	if rsm.Version.AtLeast(1, 4) {
		var alpha uint8
		r.read(&alpha)
		rsm.Alpha = float32(alpha) / 255
	}

	r.skip(16) // reserved

	rsm.Textures = make([]string, r.count(maxRSMTextures, ErrInvalidRSMCount))
	for i := range rsm.Textures {
		rsm.Textures[i] = r.str(rsmNameSize)
	}

	rsm.RootNode = r.str(rsmNameSize)

	nodeCount := r.count(maxRSMNodes, ErrInvalidRSMCount)
	if r.err != nil {
		return nil, r.err
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		parseRSMNode(r, rsm.Version, &rsm.Nodes[i])
		if r.err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, r.err)
		}
	}

	// Volume boxes may follow; the exporter has no use for them.
	return rsm, nil
}

func parseRSMNode(r *binReader, version RSMVersion, node *RSMNode) {
	node.Name = r.str(rsmNameSize)
	node.Parent = r.str(rsmNameSize)

	node.TextureIDs = make([]int32, r.count(maxRSMTextures, ErrInvalidRSMCount))
	r.read(node.TextureIDs)

	r.read(&node.Matrix)
	r.read(&node.Offset)
	r.read(&node.Position)
	r.read(&node.RotAngle)
	r.read(&node.RotAxis)
	r.read(&node.Scale)

	node.Vertices = make([][3]float32, r.count(maxRSMElements, ErrInvalidRSMCount))
	r.read(node.Vertices)

	node.TexCoords = make([]RSMTexCoord, r.count(maxRSMElements, ErrInvalidRSMCount))
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		if version.AtLeast(1, 2) {
			r.read(&tc.Color)
		} else {
			tc.Color = [4]uint8{255, 255, 255, 255}
		}
		r.read(&tc.U)
		r.read(&tc.V)
	}

	node.Faces = make([]RSMFace, r.count(maxRSMElements, ErrInvalidRSMCount))
	for i := range node.Faces {
		face := &node.Faces[i]
		var padding uint16
		r.read(&face.VertexIDs)
		r.read(&face.TexCoordIDs)
		r.read(&face.TextureID)
		r.read(&padding)
		r.read(&face.TwoSide)
		if version.AtLeast(1, 2) {
			r.read(&face.SmoothGroup)
		}
	}

	if !version.AtLeast(1, 5) {
		node.PosKeys = make([]RSMPosKeyframe, r.count(maxRSMKeys, ErrInvalidRSMCount))
		for i := range node.PosKeys {
			r.read(&node.PosKeys[i].Frame)
			r.read(&node.PosKeys[i].Position)
		}
	}

	node.RotKeys = make([]RSMRotKeyframe, r.count(maxRSMKeys, ErrInvalidRSMCount))
	for i := range node.RotKeys {
		r.read(&node.RotKeys[i].Frame)
		r.read(&node.RotKeys[i].Quaternion)
	}

	if version.AtLeast(1, 5) {
		node.ScaleKeys = make([]RSMScaleKeyframe, r.count(maxRSMKeys, ErrInvalidRSMCount))
		for i := range node.ScaleKeys {
			r.read(&node.ScaleKeys[i].Frame)
			r.read(&node.ScaleKeys[i].Scale)
		}
	}
}

// NodeByName returns a node by name, or nil if not found.
func (rsm *RSM) NodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// FaceCount returns the number of faces across all nodes.
func (rsm *RSM) FaceCount() int {
	total := 0
	for i := range rsm.Nodes {
		total += len(rsm.Nodes[i].Faces)
	}
	return total
}
