package export

import (
	"bufio"
	"io"
	"strconv"
)

// Writer renders the text format. It performs no validation: buffers must come
// from Flatten. The first write error is sticky and returned by every later call.
type Writer struct {
	w         *bufio.Writer
	precision int
	line      []byte
	err       error
}

// NewWriter returns a Writer formatting components with the given number of
// fractional digits.
func NewWriter(w io.Writer, precision int) *Writer {
	return &Writer{w: bufio.NewWriter(w), precision: precision}
}

// WriteHeader writes the format version and the object count.
func (w *Writer) WriteHeader(objectCount int) error {
	w.writeLine([]byte(FormatVersion))
	w.writeLine(strconv.AppendInt(w.line[:0], int64(objectCount), 10))
	return w.err
}

// WriteObject writes one object block: name, face block, attribute block and
// vertex block.
func (w *Writer) WriteObject(name string, b *Buffer) error {
	w.writeLine([]byte(name))

	w.writeLine(strconv.AppendInt(w.line[:0], int64(len(b.Faces)), 10))
	for _, indices := range b.Faces {
		line := strconv.AppendInt(w.line[:0], int64(len(indices)), 10)
		for _, idx := range indices {
			line = append(line, ',')
			line = strconv.AppendInt(line, int64(idx), 10)
		}
		w.writeLine(line)
	}
	w.writeLine(strconv.AppendInt(w.line[:0], int64(b.VertexCount()), 10))

	w.writeLine(strconv.AppendInt(w.line[:0], int64(len(b.Layout.Attributes)), 10))
	for _, a := range b.Layout.Attributes {
		w.writeLine([]byte(a.Kind.String()))
	}

	for _, row := range b.Vertices {
		line := w.line[:0]
		for i, c := range row {
			if i > 0 {
				line = append(line, ',')
			}
			line = strconv.AppendFloat(line, float64(c), 'f', w.precision, 32)
		}
		w.writeLine(line)
	}
	return w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) writeLine(line []byte) {
	w.line = line
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(line); err != nil {
		w.err = err
		return
	}
	w.err = w.w.WriteByte('\n')
}
