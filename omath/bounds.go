package omath

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// SphereBox returns the smallest box containing the sphere at p with radius r.
func SphereBox(p mgl32.Vec3, r float32) cube.BBox {
	return cube.Box(
		p.X()-r, p.Y()-r, p.Z()-r,
		p.X()+r, p.Y()+r, p.Z()+r,
	)
}

// CenteredBox returns a box of the size passed centered on p.
func CenteredBox(p, size mgl32.Vec3) cube.BBox {
	h := size.Mul(0.5)
	return cube.Box(
		p.X()-h.X(), p.Y()-h.Y(), p.Z()-h.Z(),
		p.X()+h.X(), p.Y()+h.Y(), p.Z()+h.Z(),
	)
}

// EncapsulateSphere grows b to contain the sphere at p with radius r. The result does not depend on
// the order spheres are added in.
func EncapsulateSphere(b cube.BBox, p mgl32.Vec3, r float32) cube.BBox {
	return EncapsulateBox(b, SphereBox(p, r))
}

// EncapsulateBox grows a to contain b.
func EncapsulateBox(a, b cube.BBox) cube.BBox {
	minA, maxA := a.Min(), a.Max()
	minB, maxB := b.Min(), b.Max()
	return cube.Box(
		math32.Min(minA.X(), minB.X()), math32.Min(minA.Y(), minB.Y()), math32.Min(minA.Z(), minB.Z()),
		math32.Max(maxA.X(), maxB.X()), math32.Max(maxA.Y(), maxB.Y()), math32.Max(maxA.Z(), maxB.Z()),
	)
}

// BoxSize returns the extent of b on each axis.
func BoxSize(b cube.BBox) mgl32.Vec3 {
	return b.Max().Sub(b.Min())
}

// BoxCenter returns the centroid of b.
func BoxCenter(b cube.BBox) mgl32.Vec3 {
	return b.Min().Add(b.Max()).Mul(0.5)
}
