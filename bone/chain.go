// Package bone wraps a simulated bone chain so its parameters and collider list can be changed and
// later restored exactly.
package bone

import (
	"slices"

	"github.com/oomph-ac/dynbones/assert"
	"github.com/oomph-ac/dynbones/omath"
	"github.com/oomph-ac/dynbones/scene"
)

// Chain is a handle on one simulated chain belonging to an entity.
type Chain struct {
	sim scene.Chain

	// original holds the parameters observed when the handle was created.
	original scene.Params
	// originalColliders is the collider list observed when the handle was created. It is never
	// modified.
	originalColliders []scene.Collider
	// live is reused to build overlaid collider lists.
	live []scene.Collider

	// enabled is the enabled flag the handle last left the chain in.
	enabled bool
	// wasEnabled is the last enabled flag set on the chain by anything other than the handle.
	wasEnabled bool
}

// NewChain creates a handle on sim. Missing colliders are removed from the chain's collider list
// before it is captured.
func NewChain(sim scene.Chain) *Chain {
	assert.IsTrue(sim != nil, "bone.NewChain: nil chain")

	cols := sim.Colliders()
	original := make([]scene.Collider, 0, len(cols))
	for _, c := range cols {
		if c != nil && c.Alive() {
			original = append(original, c)
		}
	}
	sim.SetColliders(slices.Clone(original))

	enabled := sim.Enabled()
	return &Chain{
		sim:               sim,
		original:          sim.Params(),
		originalColliders: original,
		enabled:           enabled,
		wasEnabled:        enabled,
	}
}

// Sim returns the simulated chain.
func (c *Chain) Sim() scene.Chain {
	return c.sim
}

// Alive returns false once the simulated chain has been destroyed.
func (c *Chain) Alive() bool {
	return c.sim.Alive()
}

// Enabled returns true if the handle last left the chain enabled and the chain still exists.
func (c *Chain) Enabled() bool {
	return c.enabled && c.Alive()
}

// OriginalColliders returns the collider list captured when the handle was created. The slice must not
// be modified.
func (c *Chain) OriginalColliders() []scene.Collider {
	return c.originalColliders
}

// SetEnabled disables the chain, or enables it if it was enabled the last time something other than
// the handle changed it. A change made to the chain since the handle last touched it is recorded
// before applying v.
func (c *Chain) SetEnabled(v bool) {
	if !c.Alive() {
		return
	}
	c.observe()
	if !v || c.wasEnabled {
		c.sim.SetEnabled(v)
	}
	c.enabled = c.sim.Enabled()
}

// observe records an external change of the chain's enabled flag.
func (c *Chain) observe() {
	if live := c.sim.Enabled(); live != c.enabled {
		c.wasEnabled = live
	}
}

// RescaleQuality sets the update rate of the chain to rate. When both rate and the original update rate
// are positive, damping is scaled by k = rate/original and elasticity and inertia by 1/k, so the chain
// settles the same way at a lower sampling frequency. Rescaled values are clamped to [0, 1]. Otherwise
// the original damping, elasticity and inertia are kept.
func (c *Chain) RescaleQuality(rate float32) {
	if !c.Alive() {
		return
	}
	p := c.original
	p.UpdateRate = rate
	if rate > 0 && c.original.UpdateRate > 0 && !omath.Float32ApproxEq(rate, c.original.UpdateRate) {
		k := rate / c.original.UpdateRate
		p.Damping = omath.Clamp(c.original.Damping*k, 0, 1)
		p.Elasticity = omath.Clamp(c.original.Elasticity/k, 0, 1)
		p.Inertia = omath.Clamp(c.original.Inertia/k, 0, 1)
	}
	c.sim.SetParams(p)
}

// OverlayColliders sets the chain's collider list to its original colliders followed by extra. An
// empty extra restores the original list.
func (c *Chain) OverlayColliders(extra []scene.Collider) {
	if !c.Alive() {
		return
	}
	if len(extra) == 0 {
		c.sim.SetColliders(slices.Clone(c.originalColliders))
		return
	}
	c.live = append(append(c.live[:0], c.originalColliders...), extra...)
	c.sim.SetColliders(c.live)
}

// RestoreOriginal puts back the parameters, enabled flag and collider list the chain had before the
// handle changed them.
func (c *Chain) RestoreOriginal() {
	if !c.Alive() {
		return
	}
	c.observe()
	c.sim.SetParams(c.original)
	c.sim.SetEnabled(c.wasEnabled)
	c.sim.SetColliders(slices.Clone(c.originalColliders))
	c.enabled = c.wasEnabled
}
