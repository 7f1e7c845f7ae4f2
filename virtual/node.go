package virtual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// Node is an in-memory transform. It supports translation and uniform scale, which is all the broker
// geometry needs.
type Node struct {
	name string

	parent   *Node
	children []*Node

	local mgl32.Vec3
	scale float32

	destroyed bool
}

// NewNode creates a root node at the local position passed with a scale of one.
func NewNode(name string, local mgl32.Vec3) *Node {
	return &Node{name: name, local: local, scale: 1}
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return n.name
}

// Add creates a child node at the local offset passed and returns it.
func (n *Node) Add(name string, local mgl32.Vec3) *Node {
	c := NewNode(name, local)
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// SetScale sets the uniform local scale of the node.
func (n *Node) SetScale(s float32) {
	n.scale = s
}

// SetLocal moves the node relative to its parent.
func (n *Node) SetLocal(local mgl32.Vec3) {
	n.local = local
}

// Move sets the world position of the node.
func (n *Node) Move(pos mgl32.Vec3) {
	if n.parent == nil {
		n.local = pos
		return
	}
	n.local = n.parent.InverseTransformPoint(pos)
}

// Destroy marks the node and its whole subtree as destroyed.
func (n *Node) Destroy() {
	n.destroyed = true
	for _, c := range n.children {
		c.Destroy()
	}
}

// Alive ...
func (n *Node) Alive() bool {
	return n != nil && !n.destroyed
}

// Position ...
func (n *Node) Position() mgl32.Vec3 {
	if n.parent == nil {
		return n.local
	}
	return n.parent.TransformPoint(n.local)
}

// LossyScale ...
func (n *Node) LossyScale() mgl32.Vec3 {
	s := n.worldScale()
	return mgl32.Vec3{s, s, s}
}

func (n *Node) worldScale() float32 {
	s := n.scale
	for p := n.parent; p != nil; p = p.parent {
		s *= p.scale
	}
	return s
}

// Parent ...
func (n *Node) Parent() scene.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Children ...
func (n *Node) Children() []scene.Node {
	out := make([]scene.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// TransformPoint ...
func (n *Node) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return n.Position().Add(p.Mul(n.worldScale()))
}

// InverseTransformPoint ...
func (n *Node) InverseTransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	s := n.worldScale()
	if s == 0 {
		return mgl32.Vec3{}
	}
	return p.Sub(n.Position()).Mul(1 / s)
}

// TransformDirection ...
func (n *Node) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return d
}
