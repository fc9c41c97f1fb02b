package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = `g3dt-rigid-1.0
2
quad
1
4,0,1,2,3
4
2
position
uv
0.0,0.0,0.0,0.0,1.0
1.0,0.0,0.0,1.0,1.0
1.0,1.0,0.0,1.0,0.0
0.0,1.0,0.0,0.0,0.0
tri
1
3,0,2,1
3
1
position
0,0,0
1,0,0
0,1,0
`

func TestRead(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if doc.Version != FormatVersion || len(doc.Objects) != 2 {
		t.Fatalf("doc = %s with %d objects", doc.Version, len(doc.Objects))
	}

	quad := doc.Objects[0]
	if quad.Name != "quad" || quad.Stride() != 5 || len(quad.Vertices) != 4 {
		t.Errorf("quad = %+v", quad)
	}
	if quad.Vertices[1][3] != 1 {
		t.Errorf("quad vertex 1 = %v", quad.Vertices[1])
	}

	stats := doc.Stats()
	if !stats[0].Contiguous {
		t.Error("quad should be contiguous")
	}
	// Valid but not in corner order.
	if stats[1].Contiguous {
		t.Error("tri should not be contiguous")
	}
	if strings.Join(stats[0].Attributes, ",") != "position,uv" {
		t.Errorf("quad attributes = %v", stats[0].Attributes)
	}
}

func TestReadMalformed(t *testing.T) {
	replace := func(old, new string) string {
		return strings.Replace(sampleDocument, old, new, 1)
	}
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"wrong version", replace("g3dt-rigid-1.0", "g3dt-rigid-2.0")},
		{"negative object count", replace("\n2\nquad", "\n-2\nquad")},
		{"corner count mismatch", replace("4,0,1,2,3", "3,0,1,2,3")},
		{"bad index", replace("4,0,1,2,3", "4,0,1,x,3")},
		{"index out of range", replace("4,0,1,2,3", "4,0,1,2,4")},
		{"unknown attribute", replace("uv\n", "color\n")},
		{"short row", replace("1.0,0.0,0.0,1.0,1.0", "1.0,0.0,0.0,1.0")},
		{"bad component", replace("1.0,0.0,0.0,1.0,1.0", "1.0,0.0,nan?,1.0,1.0")},
		{"truncated", sampleDocument[:len(sampleDocument)-6]},
		{"trailing data", sampleDocument + "extra\n"},
		{"huge object count", "g3dt-rigid-1.0\n999999999999999\n"},
		{"huge face count", "g3dt-rigid-1.0\n1\nx\n999999999999999\n"},
		{"huge vertex count", replace("\n4\n2\nposition", "\n999999999999999\n2\nposition")},
		{"huge attribute count", replace("\n4\n2\nposition", "\n4\n999999999999999\nposition")},
		{"face count past end of input", "g3dt-rigid-1.0\n1\nx\n1000000\n"},
		{"vertex count past end of input", "g3dt-rigid-1.0\n1\nx\n0\n1000000\n1\nposition\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Read() error = %v, want %v", err, ErrMalformed)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.g3dt")
	if err := os.WriteFile(path, []byte(sampleDocument), 0644); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Errorf("ReadFile failed: %v", err)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.g3dt")); err == nil {
		t.Error("expected error for missing file")
	}
}
