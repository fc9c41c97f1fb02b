package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is returned when text input does not follow the format.
var ErrMalformed = errors.New("malformed g3dt document")

// Upper bounds on counts, used to reject corrupt headers early.
const (
	maxDocObjects    = 1 << 20
	maxDocElements   = 1 << 28
	maxDocAttributes = 1 << 10
)

// Document is a parsed export file.
type Document struct {
	Version string
	Objects []DocumentObject
}

// DocumentObject is one object block of a Document.
type DocumentObject struct {
	Name       string
	Faces      [][]int
	Attributes []AttributeKind
	Vertices   [][]float32
}

// Stride returns the number of components per vertex row.
func (o *DocumentObject) Stride() int {
	n := 0
	for _, a := range o.Attributes {
		n += a.Components()
	}
	return n
}

// Contiguous reports whether face indices enumerate the vertices exactly once,
// in order, starting at 0.
func (o *DocumentObject) Contiguous() bool {
	next := 0
	for _, f := range o.Faces {
		for _, idx := range f {
			if idx != next {
				return false
			}
			next++
		}
	}
	return next == len(o.Vertices)
}

// ObjectStats summarizes one object.
type ObjectStats struct {
	Name       string
	Faces      int
	Vertices   int
	Attributes []string
	Contiguous bool
}

// Stats returns a summary per object, in file order.
func (d *Document) Stats() []ObjectStats {
	stats := make([]ObjectStats, len(d.Objects))
	for i := range d.Objects {
		o := &d.Objects[i]
		names := make([]string, len(o.Attributes))
		for j, a := range o.Attributes {
			names[j] = a.String()
		}
		stats[i] = ObjectStats{
			Name:       o.Name,
			Faces:      len(o.Faces),
			Vertices:   len(o.Vertices),
			Attributes: names,
			Contiguous: o.Contiguous(),
		}
	}
	return stats
}

// ReadFile parses the file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a document. Counts, attribute names, row widths and index
// ranges are checked; errors wrap ErrMalformed with the offending line.
func Read(r io.Reader) (*Document, error) {
	p := &docParser{scanner: bufio.NewScanner(r)}
	p.scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	version, err := p.next()
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, p.fail("unsupported version %q", version)
	}
	doc := &Document{Version: version}

	objectCount, err := p.count(maxDocObjects)
	if err != nil {
		return nil, err
	}
	for i := 0; i < objectCount; i++ {
		obj, err := p.object()
		if err != nil {
			return nil, err
		}
		doc.Objects = append(doc.Objects, obj)
	}
	for p.scanner.Scan() {
		p.lineNo++
		if strings.TrimSpace(p.scanner.Text()) != "" {
			return nil, p.fail("trailing data after %d objects", objectCount)
		}
	}
	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return doc, nil
}

type docParser struct {
	scanner *bufio.Scanner
	lineNo  int
}

func (p *docParser) fail(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, p.lineNo, fmt.Sprintf(format, args...))
}

func (p *docParser) next() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading document: %w", err)
		}
		return "", fmt.Errorf("%w: unexpected end of input after line %d", ErrMalformed, p.lineNo)
	}
	p.lineNo++
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// count reads a count line and checks it against [0, limit].
// Callers grow their slices as lines arrive, so a count larger than the
// remaining input ends in an unexpected-end error rather than a huge allocation.
func (p *docParser) count(limit int) (int, error) {
	line, err := p.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		return 0, p.fail("invalid count %q", line)
	}
	if n > limit {
		return 0, p.fail("count %d exceeds limit %d", n, limit)
	}
	return n, nil
}

func (p *docParser) object() (DocumentObject, error) {
	var obj DocumentObject
	name, err := p.next()
	if err != nil {
		return obj, err
	}
	obj.Name = name

	faceCount, err := p.count(maxDocElements)
	if err != nil {
		return obj, err
	}
	for i := 0; i < faceCount; i++ {
		line, err := p.next()
		if err != nil {
			return obj, err
		}
		fields := strings.Split(line, ",")
		corners, err := strconv.Atoi(fields[0])
		if err != nil || corners != len(fields)-1 {
			return obj, p.fail("face %d: corner count %q does not match %d indices", i, fields[0], len(fields)-1)
		}
		indices := make([]int, corners)
		for j, f := range fields[1:] {
			if indices[j], err = strconv.Atoi(f); err != nil {
				return obj, p.fail("face %d: invalid index %q", i, f)
			}
		}
		obj.Faces = append(obj.Faces, indices)
	}

	vertexCount, err := p.count(maxDocElements)
	if err != nil {
		return obj, err
	}
	for i, f := range obj.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= vertexCount {
				return obj, p.fail("face %d: index %d outside [0, %d)", i, idx, vertexCount)
			}
		}
	}

	attrCount, err := p.count(maxDocAttributes)
	if err != nil {
		return obj, err
	}
	for i := 0; i < attrCount; i++ {
		line, err := p.next()
		if err != nil {
			return obj, err
		}
		kind, ok := ParseAttributeKind(line)
		if !ok {
			return obj, p.fail("unknown attribute %q", line)
		}
		obj.Attributes = append(obj.Attributes, kind)
	}

	stride := obj.Stride()
	for i := 0; i < vertexCount; i++ {
		line, err := p.next()
		if err != nil {
			return obj, err
		}
		fields := strings.Split(line, ",")
		if len(fields) != stride {
			return obj, p.fail("vertex %d has %d components, want %d", i, len(fields), stride)
		}
		row := make([]float32, stride)
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return obj, p.fail("vertex %d: invalid component %q", i, f)
			}
			row[j] = float32(v)
		}
		obj.Vertices = append(obj.Vertices, row)
	}
	return obj, nil
}
