package model

import (
	"github.com/Faultbox/meshexport/pkg/formats"
	"github.com/Faultbox/meshexport/pkg/math"
)

// bracket finds the keys surrounding timeMs and the blend factor between them.
// Keys are assumed sorted by frame.
func bracket(n int, frame func(int) int32, timeMs float32) (prev, next int, t float32) {
	for i := 0; i < n; i++ {
		if float32(frame(i)) > timeMs {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	f0, f1 := frame(prev), frame(next)
	if f1 != f0 {
		t = (timeMs - float32(f0)) / float32(f1-f0)
	}
	return prev, next, t
}

// SampleRotation returns the keyframed rotation at timeMs. Before the first
// key the first key is used.
func SampleRotation(keys []formats.RSMRotKeyframe, timeMs float32) math.Quat {
	switch len(keys) {
	case 0:
		return math.QuatIdentity()
	case 1:
		return math.QuatFromArray(keys[0].Quaternion)
	}
	prev, next, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	q0 := math.QuatFromArray(keys[prev].Quaternion)
	if prev == next {
		return q0
	}
	return q0.Nlerp(math.QuatFromArray(keys[next].Quaternion), t)
}

// SampleScale returns the keyframed scale at timeMs, or (1, 1, 1) without keys.
func SampleScale(keys []formats.RSMScaleKeyframe, timeMs float32) [3]float32 {
	switch len(keys) {
	case 0:
		return [3]float32{1, 1, 1}
	case 1:
		return keys[0].Scale
	}
	prev, next, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return lerp3(keys[prev].Scale, keys[next].Scale, t)
}

// SamplePosition returns the keyframed position at timeMs. ok is false when
// the node has no position keys.
func SamplePosition(keys []formats.RSMPosKeyframe, timeMs float32) (pos [3]float32, ok bool) {
	switch len(keys) {
	case 0:
		return pos, false
	case 1:
		return keys[0].Position, true
	}
	prev, next, t := bracket(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return lerp3(keys[prev].Position, keys[next].Position, t), true
}

func lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// HasAnimation reports whether the model carries more than a static pose.
// A single keyframe is a pose, not an animation.
func HasAnimation(rsm *formats.RSM) bool {
	if rsm.AnimLength <= 0 {
		return false
	}
	for i := range rsm.Nodes {
		node := &rsm.Nodes[i]
		if len(node.RotKeys) > 1 || len(node.PosKeys) > 1 || len(node.ScaleKeys) > 1 {
			return true
		}
	}
	return false
}
