package broker

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones/entity"
	"github.com/oomph-ac/dynbones/scene"
	"github.com/oomph-ac/dynbones/settings"
	"github.com/oomph-ac/dynbones/virtual"
)

const frame = float32(1) / 60

// eye is the eye height of every test avatar.
const eye = 1.6

// cameraHeight is the height of the bounds center of a humanoid with eye height eye.
const cameraHeight = 0.84

func testSettings() settings.Settings {
	s := settings.DefaultSettings()
	s.Manage = true
	s.Mode = settings.ModeGlobalForEveryone
	s.WorkingDistance = 5
	return s
}

// newBroker returns a broker with a camera at the bounds center of an avatar standing at the origin.
func newBroker(s settings.Settings) *Broker {
	b := New(nil, s)
	b.SetCamera(virtual.NewNode("camera", mgl32.Vec3{0, cameraHeight, 0}))
	return b
}

func track(t *testing.T, b *Broker, name string, local bool, x float32) *virtual.Rig {
	t.Helper()
	r := virtual.Humanoid(name, mgl32.Vec3{x, 0, 0}, eye)
	if !b.AddEntity(r, local, name, eye) {
		t.Fatalf("failed tracking %s", name)
	}
	return r
}

func colour(t *testing.T, b *Broker, owner scene.Object) entity.DebugColour {
	t.Helper()
	p, ok := b.Profile(owner)
	if !ok {
		t.Fatalf("entity is not tracked")
	}
	return p.Debug().Colour
}

func hasCollider(cols []scene.Collider, c *virtual.Collider) bool {
	for _, col := range cols {
		if col == scene.Collider(c) {
			return true
		}
	}
	return false
}

func near(a, b float32) bool {
	return math32.Abs(a-b) < 0.01
}

func TestNearbyEntitiesCollide(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	if len(a.Hair.Cols) != 8 || a.Hair.Cols[0] != scene.Collider(a.HeadCol) {
		t.Fatalf("expected own collider followed by 7 others, got %d", len(a.Hair.Cols))
	}
	if !hasCollider(a.Hair.Cols, r.ChestCol) || !hasCollider(a.TailChain.Cols, r.LeftHandCol) {
		t.Fatalf("expected colliders of b on the chains of a")
	}
	if !hasCollider(r.Hair.Cols, a.ChestCol) {
		t.Fatalf("expected colliders of a on the chains of b")
	}
	if colour(t, b, a) != entity.DebugColourColliding || colour(t, b, r) != entity.DebugColourColliding {
		t.Fatalf("expected both entities to be coloured as colliding")
	}
	if !r.Hair.On || !a.Hair.On {
		t.Fatalf("expected both entities to be active")
	}
}

func TestDistantEntityIsDeactivated(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	r.Move(mgl32.Vec3{50, 0, 0})
	b.Tick(frame)

	if r.Hair.On || r.TailChain.On {
		t.Fatalf("expected chains of the distant entity to be disabled")
	}
	if len(a.Hair.Cols) != 1 || len(a.TailChain.Cols) != 0 {
		t.Fatalf("expected overlay to be removed, got %d and %d colliders", len(a.Hair.Cols), len(a.TailChain.Cols))
	}
	if len(r.Hair.Cols) != 1 {
		t.Fatalf("expected overlay of the inactive entity to be removed, got %d colliders", len(r.Hair.Cols))
	}
	if colour(t, b, r) != entity.DebugColourInactive || colour(t, b, a) != entity.DebugColourDefault {
		t.Fatalf("unexpected colours %v and %v", colour(t, b, a), colour(t, b, r))
	}

	r.Move(mgl32.Vec3{2, 0, 0})
	b.Tick(frame)
	if !r.Hair.On || len(a.Hair.Cols) != 8 {
		t.Fatalf("expected entity to collide again once it is back in range")
	}
}

func TestAddEntityIdempotent(t *testing.T) {
	b := newBroker(testSettings())
	r := track(t, b, "a", true, 0)
	if b.AddEntity(r, true, "a", eye) {
		t.Fatalf("expected second add to be a no-op")
	}
	if b.Len() != 1 || !b.Contains(r) {
		t.Fatalf("expected exactly one tracked entity, got %d", b.Len())
	}

	dead := virtual.Humanoid("dead", mgl32.Vec3{}, eye)
	dead.Destroy()
	if b.AddEntity(dead, false, "dead", eye) || b.AddEntity(nil, false, "nil", eye) {
		t.Fatalf("expected destroyed and nil owners to be rejected")
	}
}

func TestEntitiesKeepInsertionOrder(t *testing.T) {
	b := newBroker(testSettings())
	names := []string{"a", "b", "c", "d"}
	rigs := make([]*virtual.Rig, len(names))
	for i, n := range names {
		rigs[i] = track(t, b, n, i == 0, float32(i))
	}
	b.RemoveEntity(rigs[1])

	var got []string
	for p := range b.Entities() {
		got = append(got, p.Name())
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "d" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestCollidersFilter(t *testing.T) {
	s := testSettings()
	s.OthersCollidersFilter = settings.FilterHandsOnly
	s.LocalCollidersFilter = settings.FilterUpperBody
	b := newBroker(s)
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	want := []*virtual.Collider{a.HeadCol, r.LeftHandCol, r.LeftFingerCol, r.RightHandCol, r.RightFingerCol}
	if len(a.Hair.Cols) != len(want) {
		t.Fatalf("expected %d colliders, got %d", len(want), len(a.Hair.Cols))
	}
	for i, c := range want {
		if a.Hair.Cols[i] != scene.Collider(c) {
			t.Fatalf("unexpected collider %d on %v", i, a.Hair.Cols[i].Node())
		}
	}
	if hasCollider(a.Hair.Cols, r.ChestCol) || hasCollider(a.Hair.Cols, r.HeadCol) {
		t.Fatalf("expected no upper body colliders of b with the hands only filter")
	}

	// b receives the upper body of the local entity, without its thigh.
	if len(r.Hair.Cols) != 7 || hasCollider(r.Hair.Cols, a.LeftThighCol) {
		t.Fatalf("expected upper body colliders of a on b, got %d", len(r.Hair.Cols))
	}
}

func TestModes(t *testing.T) {
	cases := []struct {
		mode    settings.Mode
		a, b, c int
	}{
		{settings.ModeLocal, 15, 1, 1},
		{settings.ModeGlobalForPlayer, 15, 8, 8},
		{settings.ModeGlobalForEveryone, 15, 15, 15},
		{settings.ModeDisabled, 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			s := testSettings()
			s.Mode = tc.mode
			b := newBroker(s)
			a := track(t, b, "a", true, 0)
			rb := track(t, b, "b", false, 2)
			rc := track(t, b, "c", false, 1)
			b.Tick(frame)

			if len(a.Hair.Cols) != tc.a || len(rb.Hair.Cols) != tc.b || len(rc.Hair.Cols) != tc.c {
				t.Fatalf("expected %d, %d and %d colliders, got %d, %d and %d", tc.a, tc.b, tc.c,
					len(a.Hair.Cols), len(rb.Hair.Cols), len(rc.Hair.Cols))
			}
		})
	}
}

func TestDisabledMode(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	b.SetMode(settings.ModeDisabled)
	for _, rig := range []*virtual.Rig{a, r} {
		if rig.Hair.On || rig.TailChain.On {
			t.Fatalf("expected chains of %s to be disabled", rig.Name)
		}
		if len(rig.Hair.Cols) != 1 || len(rig.TailChain.Cols) != 0 {
			t.Fatalf("expected overlay of %s to be removed", rig.Name)
		}
	}

	b.Tick(frame)
	if a.Hair.On || colour(t, b, a) != entity.DebugColourInactive {
		t.Fatalf("expected local entity to stay disabled")
	}

	b.SetMode(settings.ModeGlobalForEveryone)
	if !a.Hair.On || !r.Hair.On {
		t.Fatalf("expected chains to be enabled again")
	}
	b.Tick(frame)
	if len(a.Hair.Cols) != 8 {
		t.Fatalf("expected overlay to come back, got %d colliders", len(a.Hair.Cols))
	}
}

func TestDisabledModeFromStart(t *testing.T) {
	s := testSettings()
	s.Mode = settings.ModeDisabled
	b := New(nil, s)
	a := track(t, b, "a", true, 0)
	b.Tick(frame)
	if a.Hair.On {
		t.Fatalf("expected chains to be disabled without a camera")
	}
}

func TestActivationHysteresis(t *testing.T) {
	b := newBroker(testSettings())
	r := track(t, b, "b", false, 5.1)

	steps := []struct {
		x    float32
		want bool
	}{
		{5.1, true},
		{5.2, false},
		{5.1, false},
		{4.9, false},
		{4.8, true},
		{5.1, true},
		{5.14, true},
		{5.16, false},
	}
	for i, step := range steps {
		r.Move(mgl32.Vec3{step.x, 0, 0})
		b.Tick(frame)
		p, _ := b.Profile(r)
		if p.DynamicBonesEnabled() != step.want || r.Hair.On != step.want {
			t.Fatalf("step %d at %v: expected active %v, got %v", i, step.x, step.want, p.DynamicBonesEnabled())
		}
	}
}

func TestUpdateRate(t *testing.T) {
	cases := []struct {
		name      string
		rateMode  settings.RateMode
		max, min  float32
		wd        float32
		dt        float32
		x         float32
		wantRate  float32
		wantDamp  float32
		wantInert float32
	}{
		{"constant", settings.RateConstant, 90, 30, 5, frame, 3, 90, 0.3, 0.2},
		{"up close", settings.RateDistanceDependent, 60, 30, 5, frame, 1, 60, 0.2, 0.3},
		{"halfway", settings.RateDistanceDependent, 60, 30, 5, frame, 3.25, 45, 0.15, 0.4},
		{"display rate", settings.RateDistanceDependent, 0, 30, 5, 0.01, 3.25, 65, 0.21667, 0.27692},
		{"no working distance", settings.RateDistanceDependent, 60, 30, 0, frame, 20, 60, 0.2, 0.3},
		{"min above max", settings.RateDistanceDependent, 30, 60, 5, frame, 4, 30, 0.1, 0.6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testSettings()
			s.UpdateRateMode = tc.rateMode
			s.MaxUpdateRate, s.MinUpdateRate, s.WorkingDistance = tc.max, tc.min, tc.wd
			b := newBroker(s)
			r := track(t, b, "b", false, tc.x)
			b.Tick(tc.dt)

			p := r.Hair.Params()
			if !near(p.UpdateRate, tc.wantRate) || !near(p.Damping, tc.wantDamp) || !near(p.Inertia, tc.wantInert) {
				t.Fatalf("expected rate %v damping %v inertia %v, got %+v", tc.wantRate, tc.wantDamp, tc.wantInert, p)
			}
		})
	}
}

func TestLocalEntityUsesMaxRate(t *testing.T) {
	s := testSettings()
	s.MaxUpdateRate, s.MinUpdateRate = 60, 15
	b := New(nil, s)
	b.SetCamera(virtual.NewNode("camera", mgl32.Vec3{100, 0, 0}))
	a := track(t, b, "a", true, 0)
	b.Tick(frame)
	if !a.Hair.On || !near(a.Hair.Params().UpdateRate, 60) {
		t.Fatalf("expected local entity at the max rate, got %+v", a.Hair.Params())
	}
}

func TestOptimizationsOff(t *testing.T) {
	s := testSettings()
	s.Optimizations = false
	b := newBroker(s)
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 50)
	b.Tick(frame)
	if !r.Hair.On || len(a.Hair.Cols) != 8 {
		t.Fatalf("expected distant entity to collide without optimizations")
	}
}

func TestPruneDestroyedEntity(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	r.Destroy()
	b.Tick(frame)
	if b.Len() != 1 || b.Contains(r) {
		t.Fatalf("expected destroyed entity to be pruned")
	}
	if len(a.Hair.Cols) != 1 {
		t.Fatalf("expected overlay of the destroyed entity to be removed, got %d colliders", len(a.Hair.Cols))
	}
}

func TestRemoveEntityRestores(t *testing.T) {
	b := newBroker(testSettings())
	track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)
	if r.Hair.Params() == virtual.DefaultParams || len(r.Hair.Cols) == 1 {
		t.Fatalf("expected the broker to have changed the chain")
	}

	if !b.RemoveEntity(r) {
		t.Fatalf("expected entity to be removed")
	}
	if b.RemoveEntity(r) {
		t.Fatalf("expected second removal to be a no-op")
	}
	if r.Hair.Params() != virtual.DefaultParams || len(r.Hair.Cols) != 1 || !r.Hair.On {
		t.Fatalf("expected chain to be restored, got %+v", r.Hair.Params())
	}
}

func TestClear(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	b.Clear()
	if b.Len() != 0 || b.Contains(a) {
		t.Fatalf("expected no tracked entities")
	}
	if len(a.Hair.Cols) != 1 || len(r.Hair.Cols) != 1 {
		t.Fatalf("expected overlays to be removed")
	}
}

func TestManagedToggle(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)

	b.SetManaged(false)
	if len(a.Hair.Cols) != 1 || a.Hair.Params() != virtual.DefaultParams {
		t.Fatalf("expected chains to be restored when unmanaged")
	}
	r.Move(mgl32.Vec3{50, 0, 0})
	b.Tick(frame)
	if !r.Hair.On {
		t.Fatalf("expected unmanaged entity to be left alone")
	}

	b.SetManaged(true)
	b.Tick(frame)
	if r.Hair.On {
		t.Fatalf("expected distant entity to be disabled once managed again")
	}
}

func TestWithoutCamera(t *testing.T) {
	b := New(nil, testSettings())
	a := track(t, b, "a", true, 0)
	track(t, b, "b", false, 2)
	b.Tick(frame)
	if len(a.Hair.Cols) != 1 {
		t.Fatalf("expected no colliders to be shared without a camera")
	}
}

func TestCameraLostDropsOverlays(t *testing.T) {
	cam := virtual.NewNode("camera", mgl32.Vec3{0, cameraHeight, 0})
	b := New(nil, testSettings())
	b.SetCamera(cam)
	a := track(t, b, "a", true, 0)
	r := track(t, b, "b", false, 2)
	b.Tick(frame)
	if !hasCollider(a.Hair.Cols, r.ChestCol) {
		t.Fatalf("expected colliders of b on a")
	}

	cam.Destroy()
	b.RemoveEntity(r)
	for range 5 {
		b.Tick(frame)
	}
	if len(a.Hair.Cols) != 1 || hasCollider(a.Hair.Cols, r.ChestCol) {
		t.Fatalf("expected removed entity's colliders to be dropped, got %d colliders", len(a.Hair.Cols))
	}
}

func TestApply(t *testing.T) {
	b := newBroker(testSettings())
	a := track(t, b, "a", true, 0)
	b.Tick(frame)

	s := b.Settings()
	s.Mode = settings.ModeDisabled
	s.ShowDebug = true
	b.Apply(s)
	if a.Hair.On {
		t.Fatalf("expected mode change to disable chains immediately")
	}
	b.Tick(frame)
	if p, _ := b.Profile(a); !p.Debug().Visible {
		t.Fatalf("expected debug shape to be visible")
	}
	if b.Settings() != s {
		t.Fatalf("expected settings to be applied")
	}
}
