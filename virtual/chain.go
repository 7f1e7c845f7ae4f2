package virtual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// Chain is an in-memory scene.Chain. Its fields may be set directly when building a rig.
type Chain struct {
	At       *Node
	RootNode *Node
	Excluded []*Node

	JointRadius float32
	Curve       scene.Curve
	Length      float32
	Offset      mgl32.Vec3

	On       bool
	Inactive bool

	Parameters scene.Params
	Cols       []scene.Collider

	destroyed bool
}

// NewChain creates an enabled chain attached to at, simulating the joints under root.
func NewChain(at, root *Node, radius float32, p scene.Params) *Chain {
	return &Chain{At: at, RootNode: root, JointRadius: radius, Parameters: p, On: true}
}

// Destroy marks the chain component as destroyed.
func (c *Chain) Destroy() {
	c.destroyed = true
}

func (c *Chain) Alive() bool {
	return c != nil && !c.destroyed && c.At.Alive()
}

func (c *Chain) Node() scene.Node {
	return c.At
}

func (c *Chain) Root() scene.Node {
	if c.RootNode == nil {
		return nil
	}
	return c.RootNode
}

func (c *Chain) Exclusions() []scene.Node {
	out := make([]scene.Node, len(c.Excluded))
	for i, e := range c.Excluded {
		out[i] = e
	}
	return out
}

func (c *Chain) Radius() float32 {
	return c.JointRadius
}

func (c *Chain) RadiusCurve() scene.Curve {
	return c.Curve
}

func (c *Chain) EndLength() float32 {
	return c.Length
}

func (c *Chain) EndOffset() mgl32.Vec3 {
	return c.Offset
}

func (c *Chain) Enabled() bool {
	return c.On
}

func (c *Chain) SetEnabled(v bool) {
	c.On = v
}

func (c *Chain) ActiveAndEnabled() bool {
	return c.On && !c.Inactive && c.Alive()
}

func (c *Chain) Params() scene.Params {
	return c.Parameters
}

func (c *Chain) SetParams(p scene.Params) {
	c.Parameters = p
}

func (c *Chain) Colliders() []scene.Collider {
	return c.Cols
}

func (c *Chain) SetColliders(cols []scene.Collider) {
	c.Cols = cols
}

// LinearCurve interpolates linearly between From at t=0 and To at t=1.
type LinearCurve struct {
	From, To float32
}

func (l LinearCurve) Keys() int {
	return 2
}

func (l LinearCurve) Evaluate(t float32) float32 {
	return l.From + (l.To-l.From)*mgl32.Clamp(t, 0, 1)
}
