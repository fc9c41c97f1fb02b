package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshexport/pkg/math"
)

// ErrNotMesh is returned when geometry is requested from a non-mesh object.
var ErrNotMesh = errors.New("object has no mesh data")

// Modifier deforms a mesh snapshot. Apply must not modify its input.
type Modifier interface {
	Apply(m *Mesh) (*Mesh, error)
}

// TransformModifier bakes a transform into vertex positions.
type TransformModifier struct {
	Matrix math.Mat4
}

// Apply implements Modifier. Supplied vertex normals and face normal overrides
// are carried through the inverse-transpose; derived normals are recomputed
// from the transformed positions.
func (t TransformModifier) Apply(m *Mesh) (*Mesh, error) {
	out := m.Clone()
	for i, p := range out.Positions {
		out.Positions[i] = t.Matrix.TransformPoint(p)
	}

	hasOverrides := len(out.Normals) > 0
	for _, f := range out.Faces {
		if f.Normal != ([3]float32{}) {
			hasOverrides = true
			break
		}
	}
	if !hasOverrides {
		return out, nil
	}

	nm, ok := t.Matrix.NormalMatrix()
	if !ok {
		return nil, errors.New("transform is singular, normals cannot be carried")
	}
	xform := func(n [3]float32) [3]float32 {
		return math.V3(nm.TransformDirection(n)).Normalize().Array()
	}
	for i, n := range out.Normals {
		out.Normals[i] = xform(n)
	}
	for i, f := range out.Faces {
		if f.Normal != ([3]float32{}) {
			out.Faces[i].Normal = xform(f.Normal)
		}
	}
	return out, nil
}

// ModifierFunc adapts a function to the Modifier interface.
type ModifierFunc func(m *Mesh) (*Mesh, error)

// Apply implements Modifier.
func (f ModifierFunc) Apply(m *Mesh) (*Mesh, error) { return f(m) }

// Node is an in-memory Object.
type Node struct {
	ObjectName string
	ObjectKind Kind
	Selected   bool
	Base       *Mesh
	Modifiers  []Modifier
}

var _ Object = (*Node)(nil)

// Name implements Object.
func (n *Node) Name() string { return n.ObjectName }

// Kind implements Object.
func (n *Node) Kind() Kind { return n.ObjectKind }

// Mesh implements Object. With applyModifiers the modifier stack runs in order
// on a copy; the base mesh is never changed.
func (n *Node) Mesh(applyModifiers bool) (Source, error) {
	if n.ObjectKind != KindMesh || n.Base == nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotMesh, n.ObjectName, n.ObjectKind)
	}
	m := n.Base
	if applyModifiers {
		for i, mod := range n.Modifiers {
			next, err := mod.Apply(m)
			if err != nil {
				return nil, fmt.Errorf("applying modifier %d: %w", i, err)
			}
			m = next
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Collection is an in-memory Scene holding nodes in insertion order.
type Collection struct {
	Nodes []*Node
}

var _ Scene = (*Collection)(nil)

// Add appends a node and returns it.
func (c *Collection) Add(n *Node) *Node {
	c.Nodes = append(c.Nodes, n)
	return n
}

// Select marks the named nodes as selected and clears the rest.
// Names that match no node are returned.
func (c *Collection) Select(names ...string) []string {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	found := make(map[string]bool, len(names))
	for _, n := range c.Nodes {
		n.Selected = want[n.ObjectName]
		found[n.ObjectName] = true
	}
	var missing []string
	for _, name := range names {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Objects implements Scene.
func (c *Collection) Objects(selectedOnly bool) ([]Object, error) {
	objects := make([]Object, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if selectedOnly && !n.Selected {
			continue
		}
		objects = append(objects, n)
	}
	return objects, nil
}
