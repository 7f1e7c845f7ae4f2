// Package dynbones connects a broker to a host: it polls the host for avatars, applies settings changed
// from other goroutines at frame boundaries and keeps the settings file up to date.
package dynbones

import (
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/dynbones/broker"
	"github.com/oomph-ac/dynbones/oerror"
	"github.com/oomph-ac/dynbones/scene"
	"github.com/oomph-ac/dynbones/settings"
	"github.com/oomph-ac/dynbones/utils"
	"github.com/oomph-ac/dynbones/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

const (
	// rosterInterval is the time in seconds between two polls of the avatar source.
	rosterInterval = 0.1
	// utilityAvatarPrefix starts the object name of placeholder avatars that are never tracked.
	utilityAvatarPrefix = "Avatar_Utility_Base_"
	// tickSamples is the number of tick durations averaged by AverageTickTime.
	tickSamples = 120
)

// Avatar is an avatar reported by an AvatarSource.
type Avatar struct {
	// Object is the root of the avatar.
	Object scene.Object
	// ObjectName is the name of the avatar object itself.
	ObjectName string
	// Name is the display name of the user wearing the avatar.
	Name string
	// Local is true for the avatar of the local user.
	Local bool
	// EyeHeight is the height of the eyes above the feet, or zero if it is unknown.
	EyeHeight float32
}

// valid returns true if the avatar may be tracked.
func (a Avatar) valid() bool {
	return a.Object != nil && a.Object.Alive() && !strings.HasPrefix(a.ObjectName, utilityAvatarPrefix)
}

// AvatarSource enumerates the avatars present in the scene. It is called from the goroutine that calls
// Manager.Tick.
type AvatarSource interface {
	Avatars() iter.Seq[Avatar]
}

// Config holds everything needed to create a Manager.
type Config struct {
	// Log is the logger used by the Manager and its broker. A nil logger discards all output.
	Log *logrus.Logger
	// Settings are the initial settings.
	Settings settings.Settings
	// SettingsPath is the file settings are saved to when they change. Settings are not saved if it is
	// empty.
	SettingsPath string
	// Source is polled for avatars. Avatars are only tracked through Track if it is nil.
	Source AvatarSource
	// Camera is the node distances are measured from.
	Camera scene.Node
}

// request is a Track or Untrack call waiting for the next tick.
type request struct {
	avatar Avatar
	remove bool
}

// Manager owns a broker and drives it once per frame.
type Manager struct {
	log *logrus.Logger
	b   *broker.Broker
	src AvatarSource

	path  string
	saved uint64
	saver *worker.Queue

	pending     atomic.Pointer[settings.Settings]
	levelLoaded atomic.Bool
	closed      atomic.Bool

	reqMu    deadlock.Mutex
	requests []request

	sinceRoster float32
	tickTimes   *utils.Window[time.Duration]
}

// New creates a Manager from the Config passed.
func New(conf Config) *Manager {
	log := conf.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	m := &Manager{
		log:   log,
		b:     broker.New(log, conf.Settings),
		src:   conf.Source,
		path:  conf.SettingsPath,
		saved: conf.Settings.Fingerprint(),
		saver: worker.New(4),

		// Poll on the first tick.
		sinceRoster: rosterInterval,
		tickTimes:   utils.NewWindow[time.Duration](tickSamples),
	}
	m.b.SetCamera(conf.Camera)
	return m
}

// Broker returns the broker driven by the Manager. It must only be used from the goroutine calling Tick.
func (m *Manager) Broker() *broker.Broker {
	return m.b
}

// SetCamera sets the node distances are measured from. It must be called from the goroutine calling Tick.
func (m *Manager) SetCamera(n scene.Node) {
	m.b.SetCamera(n)
}

// Settings returns the settings passed to the last Apply call, or the settings of the broker if none are
// pending. It must be called from the goroutine calling Tick.
func (m *Manager) Settings() settings.Settings {
	if s := m.pending.Load(); s != nil {
		return *s
	}
	return m.b.Settings()
}

// Apply replaces the settings at the start of the next tick. It may be called from any goroutine.
func (m *Manager) Apply(s settings.Settings) {
	m.pending.Store(&s)
}

// Track starts tracking the avatar passed at the start of the next tick. It may be called from any
// goroutine.
func (m *Manager) Track(a Avatar) {
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	m.requests = append(m.requests, request{avatar: a})
}

// Untrack stops tracking obj at the start of the next tick, restoring its chains. It may be called from any
// goroutine.
func (m *Manager) Untrack(obj scene.Object) {
	m.reqMu.Lock()
	defer m.reqMu.Unlock()
	m.requests = append(m.requests, request{avatar: Avatar{Object: obj}, remove: true})
}

// LevelLoaded restores and forgets every tracked avatar at the start of the next tick. Avatars still
// reported by the source are tracked again once it is next polled. It may be called from any goroutine.
func (m *Manager) LevelLoaded() {
	m.levelLoaded.Store(true)
}

// AverageTickTime returns the average time recent ticks took.
func (m *Manager) AverageTickTime() time.Duration {
	return m.tickTimes.Mean()
}

// Tick runs one frame with the duration of the frame in seconds. A panic during the frame is logged and
// reported instead of being propagated.
func (m *Manager) Tick(dt float32) {
	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			m.log.Errorf("Tick() panic: %v", v)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("component", "broker")
				scope.SetTag("entities", strconv.Itoa(m.b.Len()))
			})
			hub.Recover(oerror.New("%v", v))
			hub.Flush(time.Second * 5)
		}
		m.tickTimes.Push(time.Since(start))
	}()

	if m.levelLoaded.Swap(false) {
		m.b.Clear()
		m.sinceRoster = 0
		m.log.Debug("level loaded, cleared avatars")
	}
	if s := m.pending.Swap(nil); s != nil {
		m.applySettings(*s)
	}
	m.handleRequests()

	if m.src != nil {
		m.sinceRoster += max(dt, 0)
		if m.sinceRoster >= rosterInterval {
			m.sinceRoster = 0
			m.pollRoster()
		}
	}
	m.b.Tick(dt)
}

// applySettings applies s to the broker and saves it if it differs from the last saved settings.
func (m *Manager) applySettings(s settings.Settings) {
	m.b.Apply(s)
	m.log.WithFields(logrus.Fields{
		"mode":     s.Mode,
		"distance": s.WorkingDistance,
		"managed":  s.Manage,
	}).Debug("applied settings")

	fp := s.Fingerprint()
	if m.path == "" || fp == m.saved || m.closed.Load() {
		return
	}
	m.saved = fp
	path := m.path
	if !m.saver.Submit(func() {
		if err := settings.Save(path, s); err != nil {
			m.log.Errorf("unable to save settings: %v", err)
		}
	}) {
		m.log.Warn("settings save queue is full, dropping save")
		m.saved = 0
	}
}

// handleRequests runs the Track and Untrack calls made since the last tick.
func (m *Manager) handleRequests() {
	m.reqMu.Lock()
	requests := m.requests
	m.requests = nil
	m.reqMu.Unlock()

	for _, r := range requests {
		if r.remove {
			m.b.RemoveEntity(r.avatar.Object)
			continue
		}
		m.track(r.avatar)
	}
}

// pollRoster tracks every valid avatar reported by the source that is not tracked yet.
func (m *Manager) pollRoster() {
	for a := range m.src.Avatars() {
		m.track(a)
	}
}

func (m *Manager) track(a Avatar) {
	if !a.valid() || m.b.Contains(a.Object) {
		return
	}
	m.b.AddEntity(a.Object, a.Local, a.Name, a.EyeHeight)
}

// Close waits for pending settings saves and restores every tracked avatar. The Manager must not be ticked
// after Close.
func (m *Manager) Close() error {
	if m.closed.Swap(true) {
		return oerror.New("manager already closed")
	}
	m.saver.Close()
	m.b.Clear()
	return nil
}
