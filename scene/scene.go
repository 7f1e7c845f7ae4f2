// Package scene describes the externally owned objects the broker inspects and parameterises. Every
// object may be destroyed by its owner at any time; callers check Alive before touching it.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Node is a transform in the host scene graph.
type Node interface {
	// Alive returns false once the node has been destroyed by its owner.
	Alive() bool
	// Position returns the world position of the node.
	Position() mgl32.Vec3
	// LossyScale returns the accumulated world scale of the node.
	LossyScale() mgl32.Vec3
	// Parent returns the parent node, or nil for a root.
	Parent() Node
	// Children returns the direct children of the node in hierarchy order.
	Children() []Node
	// TransformPoint converts a point from node-local space into world space.
	TransformPoint(p mgl32.Vec3) mgl32.Vec3
	// InverseTransformPoint converts a world point into node-local space.
	InverseTransformPoint(p mgl32.Vec3) mgl32.Vec3
	// TransformDirection converts a node-local direction into world space, ignoring scale.
	TransformDirection(d mgl32.Vec3) mgl32.Vec3
}

// Params holds the tunable simulation parameters of a Chain.
type Params struct {
	UpdateRate float32
	Damping    float32
	Elasticity float32
	Inertia    float32
}

// Curve is a distribution curve sampled over a parametric position in [0, 1].
type Curve interface {
	Keys() int
	Evaluate(t float32) float32
}

// Chain is a soft-body bone chain driven by an external simulator.
type Chain interface {
	Alive() bool
	// Node is the transform the chain component is attached to.
	Node() Node
	// Root is the first simulated joint. It may be nil.
	Root() Node
	// Exclusions lists child transforms that are not simulated.
	Exclusions() []Node
	Radius() float32
	// RadiusCurve may be nil, in which case the radius is uniform.
	RadiusCurve() Curve
	EndLength() float32
	EndOffset() mgl32.Vec3

	Enabled() bool
	SetEnabled(v bool)
	// ActiveAndEnabled is true when the chain is enabled and its object is active in the hierarchy.
	ActiveAndEnabled() bool

	Params() Params
	SetParams(p Params)

	Colliders() []Collider
	SetColliders(c []Collider)
}

// Bound describes which side of a collider deflects joints.
type Bound uint8

const (
	// BoundOutside colliders keep joints outside of them. Only these are shared between entities.
	BoundOutside Bound = iota
	// BoundInside colliders keep joints inside of them.
	BoundInside
)

// Collider is a sphere or capsule used by the simulator to deflect chains.
type Collider interface {
	Alive() bool
	Node() Node
	// Center is the collider center in the space of Node.
	Center() mgl32.Vec3
	Radius() float32
	Height() float32
	Bound() Bound
	ActiveAndEnabled() bool
}

// Landmark names a skeletal location used to categorise colliders.
type Landmark uint8

const (
	LandmarkChest Landmark = iota
	LandmarkLeftHand
	LandmarkRightHand
)

// Object is a tracked owner, usually an avatar.
type Object interface {
	Alive() bool
	Node() Node
	// Chains returns every simulated chain under the object, inactive ones included.
	Chains() []Chain
	// ColliderAt returns the collider component attached to n, if any.
	ColliderAt(n Node) (Collider, bool)
	// Landmark returns the node of a skeletal landmark. ok is false on rigs without it.
	Landmark(l Landmark) (n Node, ok bool)
}
