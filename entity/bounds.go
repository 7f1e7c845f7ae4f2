package entity

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/omath"
)

const (
	// torsoWidthRatio is the width of the torso box relative to eye height.
	torsoWidthRatio = 0.35
)

// jointBounds returns the box containing every joint of the entity's chains. Without joints the box
// is empty and placed at the owner's position.
func (p *Profile) jointBounds(includeInactive bool) cube.BBox {
	origin := p.owner.Node().Position()
	b := cube.Box(origin.X(), origin.Y(), origin.Z(), origin.X(), origin.Y(), origin.Z())
	first := true
	for _, c := range p.chains {
		sim := c.Sim()
		if !c.Alive() || (!includeInactive && !sim.ActiveAndEnabled()) {
			continue
		}
		for pos, r := range omath.Joints(sim) {
			if first {
				b, first = omath.SphereBox(pos, r), false
				continue
			}
			b = omath.EncapsulateSphere(b, pos, r)
		}
	}
	return b
}

// RecalculateBounds recomputes the bounding capsule from the current joint and collider positions.
// Inactive chains and colliders are only included when includeInactive is true. With a known eye height
// the bounds always contain a torso box of that height standing on the owner's position.
func (p *Profile) RecalculateBounds(includeInactive bool) {
	if !p.Alive() {
		return
	}
	b := p.jointBounds(includeInactive)
	for _, col := range p.shared {
		if !col.Alive() || (!includeInactive && !col.ActiveAndEnabled()) {
			continue
		}
		b = omath.EncapsulateSphere(b, omath.ColliderPosition(col), omath.ColliderRadius(col))
	}

	node := p.owner.Node()
	if p.eyeHeight > 0 {
		torso := node.Position()
		torso[1] += p.eyeHeight * 0.5
		w := p.eyeHeight * torsoWidthRatio
		b = omath.EncapsulateBox(b, omath.CenteredBox(torso, mgl32.Vec3{w, p.eyeHeight, w}))
	}

	scale := float32(1)
	if s := node.LossyScale().X(); s != 0 {
		scale = 1 / s
	}

	size := omath.BoxSize(b)
	extent := size.Len()
	if p.eyeHeight > 0 {
		extent = math32.Max(p.eyeHeight, math32.Max(size.Y(), omath.HzLen(size)))
	}

	p.radius = extent * 0.5
	p.localRadius = p.radius * scale
	p.height = p.eyeHeight * 0.5
	p.localHeight = p.height * scale

	p.localCenter = node.InverseTransformPoint(omath.BoxCenter(b))
	if p.localHeight > 0 {
		p.localCenter[1] = math32.Max(p.localCenter[1], p.localHeight)
	}
}

// Center returns the world center of the bounding capsule.
func (p *Profile) Center() mgl32.Vec3 {
	return p.owner.Node().TransformPoint(p.localCenter)
}

// Radius returns the world radius of the bounding capsule.
func (p *Profile) Radius() float32 {
	return p.radius
}

// HalfHeight returns half of the height of the bounding capsule's core segment. It is zero for sphere
// bounds.
func (p *Profile) HalfHeight() float32 {
	return p.height
}
