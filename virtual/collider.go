package virtual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// Collider is an in-memory scene.Collider.
type Collider struct {
	At     *Node
	Offset mgl32.Vec3
	R      float32
	H      float32
	B      scene.Bound

	Disabled  bool
	destroyed bool
}

// NewCollider creates an outside-bound sphere collider on at.
func NewCollider(at *Node, radius float32) *Collider {
	return &Collider{At: at, R: radius}
}

// Destroy marks the collider component as destroyed.
func (c *Collider) Destroy() {
	c.destroyed = true
}

func (c *Collider) Alive() bool {
	return c != nil && !c.destroyed && c.At.Alive()
}

func (c *Collider) Node() scene.Node {
	return c.At
}

func (c *Collider) Center() mgl32.Vec3 {
	return c.Offset
}

func (c *Collider) Radius() float32 {
	return c.R
}

func (c *Collider) Height() float32 {
	return c.H
}

func (c *Collider) Bound() scene.Bound {
	return c.B
}

func (c *Collider) ActiveAndEnabled() bool {
	return !c.Disabled && c.Alive()
}
