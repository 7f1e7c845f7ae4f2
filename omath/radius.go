package omath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/scene"
)

// CapsuleRadius returns the world radius of a sphere or capsule with the local radius and height
// passed, scaled by scale. A capsule is approximated by its longest axial extent: half of its height
// beyond the radius, plus the radius.
func CapsuleRadius(radius, height, scale float32) float32 {
	scale = math32.Abs(scale)
	r := radius * scale
	h := 0.5*height - r
	if h <= 0 {
		return r
	}
	return h*scale + r
}

// ChainRadius returns the world radius of the joints of a chain without any distribution curve.
func ChainRadius(c scene.Chain) float32 {
	return c.Radius() * math32.Abs(c.Node().LossyScale().X())
}

// ColliderRadius returns the world radius of a collider.
func ColliderRadius(c scene.Collider) float32 {
	return CapsuleRadius(c.Radius(), c.Height(), c.Node().LossyScale().X())
}

// ColliderPosition returns the world position of a collider's center.
func ColliderPosition(c scene.Collider) mgl32.Vec3 {
	return c.Node().TransformPoint(c.Center())
}
