package broker

import (
	"slices"

	"github.com/oomph-ac/dynbones/entity"
	"github.com/oomph-ac/dynbones/omath"
	"github.com/oomph-ac/dynbones/scene"
	"github.com/oomph-ac/dynbones/settings"
)

// Tick runs one update of the broker. It must be called once per frame with the duration of the frame in
// seconds.
func (b *Broker) Tick(dt float32) {
	b.prune()
	if !b.s.Manage {
		return
	}

	disabled := b.s.Mode == settings.ModeDisabled
	for p := range b.Entities() {
		p.SetDebugVisible(b.s.ShowDebug)
		if disabled {
			p.SetDynamicBonesEnabled(false)
			p.ClearColliderOverlay()
			p.SetDebugColour(entity.DebugColourInactive)
		}
	}
	if disabled {
		return
	}
	if b.camera == nil || !b.camera.Alive() {
		// No pairs are admitted without a camera.
		for p := range b.Entities() {
			p.ClearColliderOverlay()
		}
		return
	}

	b.activate(dt)
	b.assign()
}

// prune drops every entity whose owner has been destroyed.
func (b *Broker) prune() {
	for el := b.entities.Front(); el != nil; {
		next := el.Next()
		if p := el.Value; !p.Alive() {
			p.Restore()
			b.entities.Delete(el.Key)
			b.log.WithField("name", p.Name()).Debug("pruned destroyed entity")
		}
		el = next
	}
}

// activate decides which entities simulate and at which rate. Entities further from the camera than the
// working distance are switched off, with a band around it in which they keep their previous state.
func (b *Broker) activate(dt float32) {
	var refresh float32
	if dt > 0 {
		refresh = 1 / dt
	}
	cam := b.camera.Position()
	wd, band := b.s.WorkingDistance, b.s.CollisionSwitchRange*0.5

	b.active = b.active[:0]
	for p := range b.Entities() {
		exempt := p.Local() || !b.s.Optimizations
		var dist float32
		if !exempt {
			dist = p.Center().Sub(cam).Len()
		}

		active := p.DynamicBonesEnabled()
		switch {
		case exempt, wd <= 0, dist < wd-band:
			active = true
		case dist > wd+band:
			active = false
		}
		if active != p.DynamicBonesEnabled() {
			p.SetDynamicBonesEnabled(active)
			if !active {
				p.ClearColliderOverlay()
			}
		}
		if !active {
			p.SetDebugColour(entity.DebugColourInactive)
			continue
		}
		p.SetDebugColour(entity.DebugColourDefault)
		b.active = append(b.active, p)

		rate := b.updateRate(dist, refresh)
		for _, c := range p.Chains() {
			if c.Enabled() {
				c.RescaleQuality(rate)
			}
		}
	}
}

// updateRate returns the update rate for chains at dist from the camera. A configured rate of zero stands
// for the refresh rate of the current frame.
func (b *Broker) updateRate(dist, refresh float32) float32 {
	if b.s.UpdateRateMode == settings.RateConstant || b.s.WorkingDistance <= 0 {
		return b.s.MaxUpdateRate
	}
	maxRate := b.s.MaxUpdateRate
	if maxRate <= 0 {
		maxRate = refresh
	}
	minRate := b.s.MinUpdateRate
	if minRate <= 0 {
		minRate = refresh
	}
	minRate = min(minRate, maxRate)

	d := max(dist-b.s.MinimumWorkingDistance, 0)
	maxDist := max(b.s.WorkingDistance-b.s.MinimumWorkingDistance, d)
	var t float32
	if maxDist > 0 {
		t = d / maxDist
	}
	return omath.Lerp(maxRate, minRate, t)
}

// assign gives every active entity the colliders of the other active entities it may collide with.
func (b *Broker) assign() {
	total := 0
	for _, p := range b.active {
		total += len(p.SharedColliders())
	}
	b.extra = slices.Grow(b.extra[:0], total)

	for i, p := range b.active {
		b.extra = b.extra[:0]
		colliding := false
		for j, q := range b.active {
			if i == j || !b.pairAllowed(p, q) {
				continue
			}
			if b.s.Optimizations && !p.CheckProximity(q) {
				continue
			}
			colliding = true
			b.extra = append(b.extra, b.filtered(q)...)
		}
		p.OverlayColliders(b.extra)
		if colliding {
			p.SetDebugColour(entity.DebugColourColliding)
		}
	}
}

// pairAllowed returns true if the mode lets q's colliders deflect p's chains.
func (b *Broker) pairAllowed(p, q *entity.Profile) bool {
	switch b.s.Mode {
	case settings.ModeLocal:
		return p.Local()
	case settings.ModeGlobalForPlayer:
		return p.Local() || q.Local()
	case settings.ModeGlobalForEveryone:
		return true
	}
	return false
}

// filtered returns the colliders of q selected by the filter that applies to it.
func (b *Broker) filtered(q *entity.Profile) []scene.Collider {
	f := b.s.OthersCollidersFilter
	if q.Local() {
		f = b.s.LocalCollidersFilter
	}
	switch f {
	case settings.FilterUpperBody:
		return q.UpperBodyColliders()
	case settings.FilterHandsOnly:
		return q.HandColliders()
	}
	return q.SharedColliders()
}
