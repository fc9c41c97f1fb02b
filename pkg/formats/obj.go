package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidOBJ is returned for malformed Wavefront OBJ input.
var ErrInvalidOBJ = errors.New("invalid OBJ data")

// DefaultOBJObjectName names faces that appear before any "o" statement.
const DefaultOBJObjectName = "untitled"

// OBJCorner references the attributes of one face corner.
// Indices are zero-based into the file-wide pools; -1 means absent.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon with three or more corners.
type OBJFace struct {
	Corners []OBJCorner
}

// OBJObject is a named group of faces introduced by an "o" statement.
type OBJObject struct {
	Name  string
	Faces []OBJFace
}

// OBJ is a parsed Wavefront OBJ file. Vertex pools are shared by all objects,
// as in the file itself.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Objects   []OBJObject
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// ParseOBJ parses OBJ text. Supported statements are o, v, vt, vn and f;
// everything else (groups, materials, smoothing, lines) is ignored.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	var current *OBJObject

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		ident, args := fields[0], fields[1:]

		fail := func(format string, a ...any) error {
			return fmt.Errorf("%w: line %d: %s", ErrInvalidOBJ, lineNo, fmt.Sprintf(format, a...))
		}

		switch ident {
		case "o":
			name := strings.TrimSpace(strings.TrimPrefix(line, "o"))
			if name == "" {
				name = DefaultOBJObjectName
			}
			obj.Objects = append(obj.Objects, OBJObject{Name: name})
			current = &obj.Objects[len(obj.Objects)-1]

		case "v", "vn":
			v, err := parseFloats(args, 3)
			if err != nil {
				return nil, fail("%s: %v", ident, err)
			}
			p := [3]float32{v[0], v[1], v[2]}
			if ident == "v" {
				obj.Positions = append(obj.Positions, p)
			} else {
				obj.Normals = append(obj.Normals, p)
			}

		case "vt":
			v, err := parseFloats(args, 1)
			if err != nil {
				return nil, fail("vt: %v", err)
			}
			uv := [2]float32{v[0], 0}
			if len(v) > 1 {
				uv[1] = v[1]
			}
			obj.TexCoords = append(obj.TexCoords, uv)

		case "f":
			if len(args) < 3 {
				return nil, fail("face needs at least 3 corners, got %d", len(args))
			}
			face := OBJFace{Corners: make([]OBJCorner, len(args))}
			for i, ref := range args {
				c, err := obj.parseCorner(ref)
				if err != nil {
					return nil, fail("face corner %q: %v", ref, err)
				}
				face.Corners[i] = c
			}
			if current == nil {
				obj.Objects = append(obj.Objects, OBJObject{Name: DefaultOBJObjectName})
				current = &obj.Objects[len(obj.Objects)-1]
			}
			current.Faces = append(current.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return obj, nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (obj *OBJ) parseCorner(ref string) (OBJCorner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return OBJCorner{}, errors.New("too many components")
	}
	c := OBJCorner{Position: -1, TexCoord: -1, Normal: -1}

	var err error
	if c.Position, err = resolveOBJIndex(parts[0], len(obj.Positions)); err != nil {
		return OBJCorner{}, fmt.Errorf("position: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.TexCoord, err = resolveOBJIndex(parts[1], len(obj.TexCoords)); err != nil {
			return OBJCorner{}, fmt.Errorf("texcoord: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveOBJIndex(parts[2], len(obj.Normals)); err != nil {
			return OBJCorner{}, fmt.Errorf("normal: %w", err)
		}
	}
	return c, nil
}

// resolveOBJIndex converts a one-based or negative (relative) OBJ index to a
// zero-based index into a pool of size n.
func resolveOBJIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return -1, errors.New("index 0 is not valid")
	}
	if i < 0 || i >= n {
		return -1, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func parseFloats(args []string, min int) ([]float32, error) {
	if len(args) < min {
		return nil, fmt.Errorf("need %d values, got %d", min, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
