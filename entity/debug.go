package entity

import "github.com/go-gl/mathgl/mgl32"

// DebugColour is the colour an external renderer should draw a profile's debug shape with.
type DebugColour uint8

const (
	// DebugColourDefault marks an active entity that shares colliders with nobody.
	DebugColourDefault DebugColour = iota
	// DebugColourColliding marks an active entity that received colliders from another entity.
	DebugColourColliding
	// DebugColourInactive marks an entity whose chains are switched off.
	DebugColourInactive
)

// RGBA returns the colour with its alpha.
func (c DebugColour) RGBA() mgl32.Vec4 {
	switch c {
	case DebugColourColliding:
		return mgl32.Vec4{0.44, 0, 1, 0.35}
	case DebugColourInactive:
		return mgl32.Vec4{0.5, 0.5, 0.5, 0.3}
	default:
		return mgl32.Vec4{1, 1, 1, 0.35}
	}
}

func (c DebugColour) String() string {
	switch c {
	case DebugColourColliding:
		return "colliding"
	case DebugColourInactive:
		return "inactive"
	default:
		return "default"
	}
}

// DebugState is what an external renderer needs to draw a profile's bounds.
type DebugState struct {
	Visible bool
	Colour  DebugColour
	Shape   DebugShape
}

// DebugShape is the bounding volume of a profile in world space. Capsule is true when the entity has a
// known eye height; otherwise the shape is a sphere and Height equals Diameter.
type DebugShape struct {
	Capsule  bool
	Center   mgl32.Vec3
	Diameter float32
	Height   float32
}

// SetDebugVisible sets whether the debug shape should be drawn.
func (p *Profile) SetDebugVisible(v bool) {
	p.debugVisible = v
}

// SetDebugColour sets the colour of the debug shape.
func (p *Profile) SetDebugColour(c DebugColour) {
	p.debugColour = c
}

// Debug returns the current debug state of the profile.
func (p *Profile) Debug() DebugState {
	s := DebugState{Visible: p.debugVisible, Colour: p.debugColour}
	if !p.Alive() {
		return s
	}
	s.Shape = DebugShape{
		Capsule:  p.eyeHeight > 0,
		Center:   p.Center(),
		Diameter: p.radius * 2,
		Height:   p.radius * 2,
	}
	if s.Shape.Capsule {
		s.Shape.Height = p.height + p.radius
	}
	return s
}
