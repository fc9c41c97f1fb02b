// Package formats provides parsers for the model formats the exporter reads:
// Ragnarok Online RSM models and Wavefront OBJ meshes.
package formats

import (
	"bytes"
	"encoding/binary"

	"github.com/Faultbox/meshexport/pkg/encoding"
)

// binReader is a little-endian reader with a sticky error.
// After the first failure every read is a no-op and err reports the cause.
type binReader struct {
	r   *bytes.Reader
	err error
	// truncated is returned when the data ends early.
	truncated error
}

func newBinReader(data []byte, truncated error) *binReader {
	return &binReader{r: bytes.NewReader(data), truncated: truncated}
}

func (b *binReader) read(v any) {
	if b.err != nil {
		return
	}
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		b.err = b.truncated
	}
}

func (b *binReader) int32() int32 {
	var v int32
	b.read(&v)
	return v
}

// str reads a fixed-size NUL-terminated EUC-KR string.
func (b *binReader) str(size int) string {
	buf := make([]byte, size)
	b.read(buf)
	if b.err != nil {
		return ""
	}
	return encoding.FixedString(buf)
}

// count reads an element count and checks it against [0, limit].
func (b *binReader) count(limit int32, invalid error) int {
	n := b.int32()
	if b.err != nil {
		return 0
	}
	if n < 0 || n > limit {
		b.err = invalid
		return 0
	}
	return int(n)
}

func (b *binReader) skip(n int64) {
	if b.err != nil {
		return
	}
	if int64(b.r.Len()) < n {
		b.err = b.truncated
		return
	}
	b.r.Seek(n, 1)
}
