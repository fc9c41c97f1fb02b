package math

import (
	"math"
	"testing"
)

func approxVec(a, b [3]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(zero) = %v, want zero vector", got)
	}
	n := Vec3{3, 0, 4}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Normalize().Length() = %v, want ~1", l)
	}
}

func TestPolygonNormal(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec3
		want   [3]float32
	}{
		{
			name:   "ccw triangle in xy plane",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			want:   [3]float32{0, 0, 1},
		},
		{
			name:   "cw quad in xy plane",
			points: []Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
			want:   [3]float32{0, 0, -1},
		},
		{
			name:   "degenerate",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
			want:   [3]float32{0, 0, 0},
		},
		{
			name:   "too few points",
			points: []Vec3{{0, 0, 0}, {1, 0, 0}},
			want:   [3]float32{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonNormal(tt.points).Array(); !approxVec(got, tt.want) {
				t.Errorf("PolygonNormal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMat4TranslateScale(t *testing.T) {
	m := Translate(1, 2, 3).Mul(Scale(2, 2, 2))
	got := m.TransformPoint([3]float32{1, 1, 1})
	want := [3]float32{3, 4, 5}
	if !approxVec(got, want) {
		t.Errorf("TransformPoint() = %v, want %v", got, want)
	}

	dir := m.TransformDirection([3]float32{1, 0, 0})
	if !approxVec(dir, [3]float32{2, 0, 0}) {
		t.Errorf("TransformDirection() = %v, want [2 0 0]", dir)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := Translate(5, -2, 1).Mul(RotateAxis([3]float32{0, 0, 1}, math.Pi/3)).Mul(Scale(2, 3, 4))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse() reported singular matrix")
	}
	p := [3]float32{0.5, -1, 2}
	back := inv.TransformPoint(m.TransformPoint(p))
	if !approxVec(back, p) {
		t.Errorf("inverse round trip = %v, want %v", back, p)
	}

	if _, ok := Scale(1, 0, 1).Inverse(); ok {
		t.Error("Inverse() of singular matrix reported ok")
	}
}

func TestMat4NormalMatrix(t *testing.T) {
	// Non-uniform scale squashes a 45 degree surface; the normal must stay perpendicular.
	m := Scale(2, 1, 1)
	nm, ok := m.NormalMatrix()
	if !ok {
		t.Fatal("NormalMatrix() reported singular matrix")
	}
	tangent := V3(m.TransformDirection([3]float32{1, -1, 0}))
	normal := V3(nm.TransformDirection([3]float32{1, 1, 0}))
	if d := tangent.Dot(normal); math.Abs(float64(d)) > 1e-5 {
		t.Errorf("transformed normal not perpendicular to tangent, dot = %v", d)
	}
}

func TestQuatToMat4(t *testing.T) {
	s := float32(math.Sin(math.Pi / 4))
	q := Quat{X: 0, Y: 0, Z: s, W: s} // 90 degrees around Z
	got := q.ToMat4().TransformPoint([3]float32{1, 0, 0})
	if !approxVec(got, [3]float32{0, 1, 0}) {
		t.Errorf("rotated point = %v, want [0 1 0]", got)
	}

	if QuatFromArray([4]float32{0, 0, 0, 0}).Normalize() != QuatIdentity() {
		t.Error("zero quaternion should normalize to identity")
	}
}
