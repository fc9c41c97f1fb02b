package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cubeCornerOBJ = `# two objects sharing the vertex pool
mtllib scene.mtl
o Plane
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Material
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
o Tri
v 0 0 1
f -3//1 -2//1 -1//1
`

func TestParseOBJ(t *testing.T) {
	obj, err := ParseOBJ(strings.NewReader(cubeCornerOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if len(obj.Positions) != 5 || len(obj.TexCoords) != 4 || len(obj.Normals) != 1 {
		t.Fatalf("pools = %d/%d/%d, want 5/4/1", len(obj.Positions), len(obj.TexCoords), len(obj.Normals))
	}
	if len(obj.Objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(obj.Objects))
	}

	plane := obj.Objects[0]
	if plane.Name != "Plane" || len(plane.Faces) != 1 || len(plane.Faces[0].Corners) != 4 {
		t.Fatalf("plane = %+v", plane)
	}
	if got := plane.Faces[0].Corners[2]; got != (OBJCorner{Position: 2, TexCoord: 2, Normal: 0}) {
		t.Errorf("plane corner 2 = %+v", got)
	}

	tri := obj.Objects[1]
	want := []OBJCorner{
		{Position: 2, TexCoord: -1, Normal: 0},
		{Position: 3, TexCoord: -1, Normal: 0},
		{Position: 4, TexCoord: -1, Normal: 0},
	}
	for i, c := range tri.Faces[0].Corners {
		if c != want[i] {
			t.Errorf("tri corner %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestParseOBJ_DefaultObject(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	obj, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(obj.Objects) != 1 || obj.Objects[0].Name != DefaultOBJObjectName {
		t.Fatalf("objects = %+v", obj.Objects)
	}
	if c := obj.Objects[0].Faces[0].Corners[0]; c.TexCoord != -1 || c.Normal != -1 {
		t.Errorf("corner = %+v, want absent texcoord and normal", c)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"zero index", "v 0 0 0\nv 0 0 0\nv 0 0 0\nf 0 1 2\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad float", "v 0 zero 0\n"},
		{"short vertex", "v 0 0\n"},
		{"too many slashes", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, ErrInvalidOBJ) {
				t.Errorf("ParseOBJ() error = %v, want %v", err, ErrInvalidOBJ)
			}
		})
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.obj")
	if err := os.WriteFile(path, []byte(cubeCornerOBJ), 0644); err != nil {
		t.Fatalf("failed to write test OBJ: %v", err)
	}
	obj, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	if len(obj.Objects) != 2 {
		t.Errorf("objects = %d, want 2", len(obj.Objects))
	}

	if _, err := ParseOBJFile(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
