// Package broker decides every frame which tracked entities simulate their bone chains, how often they
// simulate, and which colliders of other entities deflect them.
package broker

import (
	"io"
	"iter"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/dynbones/entity"
	"github.com/oomph-ac/dynbones/omath"
	"github.com/oomph-ac/dynbones/scene"
	"github.com/oomph-ac/dynbones/settings"
	"github.com/sirupsen/logrus"
)

// Broker owns the profiles of every tracked entity. It is not safe for concurrent use: every method must be
// called from the goroutine that drives the scene.
type Broker struct {
	log *logrus.Logger
	s   settings.Settings

	entities *orderedmap.OrderedMap[scene.Object, *entity.Profile]
	camera   scene.Node

	// active and extra are reused between ticks.
	active []*entity.Profile
	extra  []scene.Collider
}

// New creates a broker with the settings passed. A nil logger discards all output.
func New(log *logrus.Logger, s settings.Settings) *Broker {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Broker{
		log:      log,
		s:        s,
		entities: orderedmap.NewOrderedMap[scene.Object, *entity.Profile](),
	}
}

// AddEntity starts tracking owner. It returns false if owner is nil, destroyed or already tracked.
func (b *Broker) AddEntity(owner scene.Object, local bool, name string, eyeHeight float32) bool {
	if owner == nil || !owner.Alive() || b.Contains(owner) {
		return false
	}
	p := entity.New(owner, local, name, eyeHeight)
	b.entities.Set(owner, p)

	joints := 0
	for _, c := range p.Chains() {
		joints += omath.JointCount(c.Sim())
	}
	b.log.WithFields(logrus.Fields{
		"name":      name,
		"local":     local,
		"chains":    len(p.Chains()),
		"joints":    joints,
		"colliders": len(p.SharedColliders()),
	}).Info("tracking entity")
	return true
}

// RemoveEntity stops tracking owner after restoring its chains. It returns false if owner was not tracked.
func (b *Broker) RemoveEntity(owner scene.Object) bool {
	p, ok := b.entities.Get(owner)
	if !ok {
		return false
	}
	p.Restore()
	b.entities.Delete(owner)
	b.log.WithField("name", p.Name()).Info("stopped tracking entity")
	return true
}

// Contains returns true if owner is tracked.
func (b *Broker) Contains(owner scene.Object) bool {
	_, ok := b.entities.Get(owner)
	return ok
}

// Profile returns the profile of owner, if it is tracked.
func (b *Broker) Profile(owner scene.Object) (*entity.Profile, bool) {
	return b.entities.Get(owner)
}

// Entities returns the profiles of all tracked entities in the order they were added.
func (b *Broker) Entities() iter.Seq[*entity.Profile] {
	return func(yield func(*entity.Profile) bool) {
		for el := b.entities.Front(); el != nil; el = el.Next() {
			if !yield(el.Value) {
				return
			}
		}
	}
}

// Len returns the number of tracked entities.
func (b *Broker) Len() int {
	return b.entities.Len()
}

// Clear restores and stops tracking every entity.
func (b *Broker) Clear() {
	for p := range b.Entities() {
		p.Restore()
	}
	n := b.entities.Len()
	b.entities = orderedmap.NewOrderedMap[scene.Object, *entity.Profile]()
	b.active, b.extra = b.active[:0], b.extra[:0]
	if n > 0 {
		b.log.WithField("count", n).Info("cleared entities")
	}
}

// SetCamera sets the node distances are measured from. Without a live camera only the disabled mode is
// enforced.
func (b *Broker) SetCamera(n scene.Node) {
	b.camera = n
}

// Settings returns the current settings.
func (b *Broker) Settings() settings.Settings {
	return b.s
}

// Apply replaces all settings, running the same side effects as the individual setters.
func (b *Broker) Apply(s settings.Settings) {
	mode, manage := s.Mode, s.Manage
	s.Mode, s.Manage = b.s.Mode, b.s.Manage
	b.s = s
	b.SetMode(mode)
	b.SetManaged(manage)
}

// SetManaged turns control over the chains on or off. Turning it off restores every chain to the state it
// had before it was tracked.
func (b *Broker) SetManaged(v bool) {
	if b.s.Manage == v {
		return
	}
	b.s.Manage = v
	if !v {
		for p := range b.Entities() {
			if p.Alive() {
				p.Restore()
			}
		}
	}
	b.log.WithField("managed", v).Info("changed dynamic bones management")
}

// SetMode sets the dynamic bones mode. Switching from or to ModeDisabled immediately enables or disables
// the chains of every entity.
func (b *Broker) SetMode(m settings.Mode) {
	if b.s.Mode == m {
		return
	}
	b.s.Mode = m
	b.log.WithField("mode", m).Info("changed dynamic bones mode")
	if !b.s.Manage {
		return
	}

	enable := m != settings.ModeDisabled
	for p := range b.Entities() {
		if !p.Alive() {
			continue
		}
		p.SetDynamicBonesEnabled(enable)
		if !enable {
			p.ClearColliderOverlay()
			p.SetDebugColour(entity.DebugColourInactive)
		}
	}
}

// SetWorkingDistance sets the distance from the camera within which other entities simulate. Zero means no
// limit.
func (b *Broker) SetWorkingDistance(d float32) {
	b.s.WorkingDistance = max(d, 0)
}

// SetUpdateRateMode sets how update rates are chosen.
func (b *Broker) SetUpdateRateMode(m settings.RateMode) {
	b.s.UpdateRateMode = m
}

// SetMaxUpdateRate sets the update rate used up close. Zero means the display refresh rate.
func (b *Broker) SetMaxUpdateRate(r float32) {
	b.s.MaxUpdateRate = max(r, 0)
}

// SetMinUpdateRate sets the update rate used at the working distance. Zero means the display refresh rate.
func (b *Broker) SetMinUpdateRate(r float32) {
	b.s.MinUpdateRate = max(r, 0)
}

// SetLocalCollidersFilter sets which colliders of the local entity are shared.
func (b *Broker) SetLocalCollidersFilter(f settings.ColliderFilter) {
	b.s.LocalCollidersFilter = f
}

// SetOthersCollidersFilter sets which colliders of other entities are shared.
func (b *Broker) SetOthersCollidersFilter(f settings.ColliderFilter) {
	b.s.OthersCollidersFilter = f
}

// SetOptimizations toggles distance based activation and the proximity test between entities.
func (b *Broker) SetOptimizations(v bool) {
	b.s.Optimizations = v
}

// SetShowDebug toggles the debug shapes of every entity.
func (b *Broker) SetShowDebug(v bool) {
	b.s.ShowDebug = v
}
