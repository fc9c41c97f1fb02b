package model

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/math"
)

func near(a, b [3]float32) bool {
	for i := range a {
		if gomath.Abs(float64(a[i]-b[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func node(name, parent string) formats.RSMNode {
	return formats.RSMNode{
		Name:   name,
		Parent: parent,
		Matrix: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Scale:  [3]float32{1, 1, 1},
	}
}

func TestBuildNodeMatrixHierarchy(t *testing.T) {
	root := node("root", "")
	root.Position = [3]float32{10, 0, 0}
	root.Offset = [3]float32{100, 0, 0} // vertex-only, not inherited
	child := node("child", "root")
	child.Position = [3]float32{1, 2, 3}

	rsm := &formats.RSM{Nodes: []formats.RSMNode{root, child}}

	got := BuildNodeMatrix(&rsm.Nodes[1], rsm, StaticPoseTime).TransformPoint([3]float32{0, 0, 0})
	if !near(got, [3]float32{11, 2, 3}) {
		t.Errorf("child origin = %v, want [11 2 3]", got)
	}
	got = BuildNodeMatrix(&rsm.Nodes[0], rsm, StaticPoseTime).TransformPoint([3]float32{0, 0, 0})
	if !near(got, [3]float32{110, 0, 0}) {
		t.Errorf("root origin = %v, want [110 0 0]", got)
	}
}

func TestBuildNodeMatrixRotation(t *testing.T) {
	s := float32(gomath.Sqrt(0.5))

	axisAngle := node("a", "")
	axisAngle.RotAxis = [3]float32{0, 0, 2}
	axisAngle.RotAngle = gomath.Pi / 2

	keyed := node("k", "")
	keyed.RotAngle = 1 // ignored when keys exist
	keyed.RotAxis = [3]float32{1, 0, 0}
	keyed.RotKeys = []formats.RSMRotKeyframe{
		{Frame: 0, Quaternion: [4]float32{0, 0, s, s}},
		{Frame: 1000, Quaternion: [4]float32{0, 0, 0, 1}},
	}

	rsm := &formats.RSM{Nodes: []formats.RSMNode{axisAngle, keyed}}
	for i := range rsm.Nodes {
		got := BuildNodeMatrix(&rsm.Nodes[i], rsm, StaticPoseTime).TransformPoint([3]float32{1, 0, 0})
		if !near(got, [3]float32{0, 1, 0}) {
			t.Errorf("node %s: rotated point = %v, want [0 1 0]", rsm.Nodes[i].Name, got)
		}
	}
}

func TestBuildNodeMatrixKeys(t *testing.T) {
	n := node("n", "")
	n.Position = [3]float32{5, 5, 5}
	n.PosKeys = []formats.RSMPosKeyframe{
		{Frame: 0, Position: [3]float32{1, 0, 0}},
		{Frame: 100, Position: [3]float32{3, 0, 0}},
	}
	n.ScaleKeys = []formats.RSMScaleKeyframe{
		{Frame: 0, Scale: [3]float32{2, 2, 2}},
	}
	rsm := &formats.RSM{Nodes: []formats.RSMNode{n}}

	tests := []struct {
		time float32
		want [3]float32
	}{
		{0, [3]float32{3, 2, 2}},
		{50, [3]float32{4, 2, 2}},
		{500, [3]float32{5, 2, 2}},
	}
	for _, tt := range tests {
		got := BuildNodeMatrix(&rsm.Nodes[0], rsm, tt.time).TransformPoint([3]float32{1, 1, 1})
		if !near(got, tt.want) {
			t.Errorf("t=%v: point = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestBuildNodeMatrixCycle(t *testing.T) {
	a := node("a", "b")
	a.Position = [3]float32{1, 0, 0}
	b := node("b", "a")
	b.Position = [3]float32{0, 1, 0}
	rsm := &formats.RSM{Nodes: []formats.RSMNode{a, b}}

	got := BuildNodeMatrix(&rsm.Nodes[0], rsm, StaticPoseTime).TransformPoint([3]float32{0, 0, 0})
	if !near(got, [3]float32{1, 1, 0}) {
		t.Errorf("cyclic hierarchy origin = %v, want [1 1 0]", got)
	}
}

func TestSampleRotation(t *testing.T) {
	if got := SampleRotation(nil, 0); got != math.QuatIdentity() {
		t.Errorf("SampleRotation(nil) = %v", got)
	}
	keys := []formats.RSMRotKeyframe{
		{Frame: 0, Quaternion: [4]float32{0, 0, 0, 1}},
		{Frame: 100, Quaternion: [4]float32{0, 0, 1, 0}},
	}
	q := SampleRotation(keys, 50)
	s := float32(gomath.Sqrt(0.5))
	if !near([3]float32{q.Z, q.W, 0}, [3]float32{s, s, 0}) {
		t.Errorf("halfway rotation = %+v", q)
	}
	if got := SampleRotation(keys, 1000); got != math.QuatFromArray(keys[1].Quaternion) {
		t.Errorf("rotation past last key = %+v", got)
	}
}

func TestHasAnimation(t *testing.T) {
	n := node("n", "")
	n.RotKeys = []formats.RSMRotKeyframe{{Frame: 0, Quaternion: [4]float32{0, 0, 0, 1}}}
	rsm := &formats.RSM{AnimLength: 1000, Nodes: []formats.RSMNode{n}}
	if HasAnimation(rsm) {
		t.Error("single keyframe reported as animation")
	}
	rsm.Nodes[0].RotKeys = append(rsm.Nodes[0].RotKeys, formats.RSMRotKeyframe{Frame: 500, Quaternion: [4]float32{0, 0, 1, 0}})
	if !HasAnimation(rsm) {
		t.Error("two keyframes not reported as animation")
	}
	rsm.AnimLength = 0
	if HasAnimation(rsm) {
		t.Error("zero-length model reported as animation")
	}
}

func TestMirrorsWinding(t *testing.T) {
	if MirrorsWinding(math.Identity()) {
		t.Error("identity mirrors winding")
	}
	if !MirrorsWinding(math.Scale(-1, 1, 1)) {
		t.Error("single-axis mirror not detected")
	}
	if MirrorsWinding(math.Scale(-1, -1, 1)) {
		t.Error("two-axis mirror is a rotation")
	}
}
