// Package entity tracks one avatar: the bone chains it owns, the colliders it can share with other
// avatars, and an approximate bounding capsule used to decide which avatars are close to each other.
package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/bone"
	"github.com/oomph-ac/dynbones/omath"
	"github.com/oomph-ac/dynbones/scene"
)

const (
	// maxColliderEyeRatio caps the radius of a shareable collider relative to eye height.
	maxColliderEyeRatio = 0.175
	// maxColliderBoundsRatio caps the radius of a shareable collider relative to the joint bounds
	// diagonal when eye height is unknown.
	maxColliderBoundsRatio = 0.25
)

// Profile is one tracked entity.
type Profile struct {
	owner     scene.Object
	local     bool
	name      string
	eyeHeight float32

	chains []*bone.Chain

	// all holds every collider found under the owner.
	all []scene.Collider
	// shared holds colliders that may be given to other entities.
	shared []scene.Collider
	// upperBody holds shared colliders found at or after the chest landmark.
	upperBody []scene.Collider
	// hands holds shareable colliders under the hand landmarks.
	hands []scene.Collider

	localCenter mgl32.Vec3
	localRadius float32
	localHeight float32
	radius      float32
	height      float32

	bonesEnabled bool
	overlaid     bool

	debugVisible bool
	debugColour  DebugColour
}

// New creates a profile for owner, discovering its chains and colliders. eyeHeight is zero when
// unknown. owner must be alive.
func New(owner scene.Object, local bool, name string, eyeHeight float32) *Profile {
	p := &Profile{
		owner:        owner,
		local:        local,
		name:         name,
		eyeHeight:    eyeHeight,
		bonesEnabled: true,
	}

	sims := owner.Chains()
	p.chains = make([]*bone.Chain, 0, len(sims))
	for _, sim := range sims {
		if sim == nil || !sim.Alive() {
			continue
		}
		p.chains = append(p.chains, bone.NewChain(sim))
	}
	p.discoverColliders()

	if len(p.chains)+len(p.shared) > 0 {
		p.RecalculateBounds(false)
	}
	return p
}

// discoverColliders fills the collider lists. The upper body list starts collecting once the chest
// landmark has been passed in a preorder walk of the hierarchy, so any subtree visited after the chest
// counts as upper body regardless of where it is attached.
func (p *Profile) discoverColliders() {
	maxRadius := p.eyeHeight * maxColliderEyeRatio
	if p.eyeHeight <= 0 {
		maxRadius = omath.BoxSize(p.jointBounds(false)).Len() * maxColliderBoundsRatio
	}

	chest, hasChest := p.owner.Landmark(scene.LandmarkChest)
	upper := false
	for n := range scene.Walk(p.owner.Node()) {
		if hasChest && n == chest {
			upper = true
		}
		col, ok := p.owner.ColliderAt(n)
		if !ok || col == nil || !col.Alive() {
			continue
		}
		p.all = append(p.all, col)
		if !shareable(col, maxRadius) {
			continue
		}
		p.shared = append(p.shared, col)
		if upper {
			p.upperBody = append(p.upperBody, col)
		}
	}

	for _, l := range [...]scene.Landmark{scene.LandmarkLeftHand, scene.LandmarkRightHand} {
		hand, ok := p.owner.Landmark(l)
		if !ok {
			continue
		}
		for n := range scene.Walk(hand) {
			if col, ok := p.owner.ColliderAt(n); ok && col != nil && col.Alive() && shareable(col, maxRadius) {
				p.hands = append(p.hands, col)
			}
		}
	}
}

// shareable returns true if col may deflect other entities' chains.
func shareable(col scene.Collider, maxRadius float32) bool {
	return col.Bound() == scene.BoundOutside && omath.ColliderRadius(col) <= maxRadius
}

// Owner returns the object the profile tracks.
func (p *Profile) Owner() scene.Object {
	return p.owner
}

// Alive returns false once the owner has been destroyed.
func (p *Profile) Alive() bool {
	return p.owner != nil && p.owner.Alive()
}

// Local returns true if the profile tracks the local user's avatar.
func (p *Profile) Local() bool {
	return p.local
}

// Name returns the display name of the entity.
func (p *Profile) Name() string {
	return p.name
}

// EyeHeight returns the eye height of the entity, or zero if it is unknown.
func (p *Profile) EyeHeight() float32 {
	return p.eyeHeight
}

// Chains returns the bone chains owned by the entity.
func (p *Profile) Chains() []*bone.Chain {
	return p.chains
}

// AllColliders returns every collider found under the entity.
func (p *Profile) AllColliders() []scene.Collider {
	return p.all
}

// SharedColliders returns the colliders the entity may share with others.
func (p *Profile) SharedColliders() []scene.Collider {
	return p.shared
}

// UpperBodyColliders returns the shared colliders at or after the chest landmark.
func (p *Profile) UpperBodyColliders() []scene.Collider {
	return p.upperBody
}

// HandColliders returns the shareable colliders under the hand landmarks.
func (p *Profile) HandColliders() []scene.Collider {
	return p.hands
}

// DynamicBonesEnabled returns whether the broker currently lets the entity's chains simulate.
func (p *Profile) DynamicBonesEnabled() bool {
	return p.bonesEnabled
}

// SetDynamicBonesEnabled enables or disables every chain of the entity. Chains are only written to when
// the value changes.
func (p *Profile) SetDynamicBonesEnabled(v bool) {
	if p.bonesEnabled == v {
		return
	}
	p.bonesEnabled = v
	for _, c := range p.chains {
		c.SetEnabled(v)
	}
}

// OverlayColliders gives extra colliders to every enabled chain of the entity. An empty extra restores
// each chain's own colliders.
func (p *Profile) OverlayColliders(extra []scene.Collider) {
	for _, c := range p.chains {
		if c.Enabled() {
			c.OverlayColliders(extra)
		}
	}
	p.overlaid = len(extra) > 0
}

// ClearColliderOverlay restores the own colliders of every chain if an overlay was applied.
func (p *Profile) ClearColliderOverlay() {
	if !p.overlaid {
		return
	}
	for _, c := range p.chains {
		c.OverlayColliders(nil)
	}
	p.overlaid = false
}

// Restore returns every chain to the state it had before the profile was created and hides the debug
// shape.
func (p *Profile) Restore() {
	p.bonesEnabled = true
	p.overlaid = false
	p.debugVisible = false
	for _, c := range p.chains {
		c.RestoreOriginal()
	}
}
