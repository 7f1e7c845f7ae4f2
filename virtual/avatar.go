package virtual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// Avatar is an in-memory scene.Object. Chains and colliders are registered explicitly rather than
// discovered from components.
type Avatar struct {
	Name     string
	RootNode *Node

	chains    []*Chain
	colliders map[*Node]*Collider
	landmarks map[scene.Landmark]*Node
}

// NewAvatar creates an avatar with an empty hierarchy rooted at pos.
func NewAvatar(name string, pos mgl32.Vec3) *Avatar {
	return &Avatar{
		Name:      name,
		RootNode:  NewNode(name, pos),
		colliders: make(map[*Node]*Collider),
		landmarks: make(map[scene.Landmark]*Node),
	}
}

// AddChain registers a chain and returns it.
func (a *Avatar) AddChain(c *Chain) *Chain {
	a.chains = append(a.chains, c)
	return c
}

// AddCollider registers a collider on the node it is attached to and returns it. A node holds at most
// one collider; adding another replaces it.
func (a *Avatar) AddCollider(c *Collider) *Collider {
	a.colliders[c.At] = c
	return c
}

// SetLandmark assigns a skeletal landmark to n.
func (a *Avatar) SetLandmark(l scene.Landmark, n *Node) {
	a.landmarks[l] = n
}

// Move moves the avatar root to the world position passed.
func (a *Avatar) Move(pos mgl32.Vec3) {
	a.RootNode.Move(pos)
}

// Destroy destroys the whole avatar hierarchy.
func (a *Avatar) Destroy() {
	a.RootNode.Destroy()
}

func (a *Avatar) Alive() bool {
	return a != nil && a.RootNode.Alive()
}

func (a *Avatar) Node() scene.Node {
	return a.RootNode
}

func (a *Avatar) Chains() []scene.Chain {
	out := make([]scene.Chain, 0, len(a.chains))
	for _, c := range a.chains {
		out = append(out, c)
	}
	return out
}

func (a *Avatar) ColliderAt(n scene.Node) (scene.Collider, bool) {
	vn, ok := n.(*Node)
	if !ok {
		return nil, false
	}
	c, ok := a.colliders[vn]
	if !ok {
		return nil, false
	}
	return c, true
}

func (a *Avatar) Landmark(l scene.Landmark) (scene.Node, bool) {
	n, ok := a.landmarks[l]
	if !ok || n == nil {
		return nil, false
	}
	return n, true
}
