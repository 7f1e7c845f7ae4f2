package main

import (
	"errors"
	"flag"
	"fmt"
	"iter"
	"os"
	"slices"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/dynbones"
	"github.com/oomph-ac/dynbones/oerror"
	"github.com/oomph-ac/dynbones/settings"
	"github.com/oomph-ac/dynbones/virtual"
	"github.com/sirupsen/logrus"
)

var (
	clones     = flag.Int("clones", 18, "number of avatar clones placed around the local avatar")
	radius     = flag.Float64("radius", 5, "radius in metres of the outermost ring of clones")
	rings      = flag.Int("rings", 2, "number of rings the clones are placed on")
	frames     = flag.Int("frames", 600, "number of frames to simulate")
	configPath = flag.String("config", "dynbones.toml", "path of the settings file")
	manage     = flag.Bool("manage", true, "manage dynamic bones even if the settings file leaves it off")
)

// The following program places a local avatar among rings of clones and runs the broker over them for a
// fixed number of frames.
func main() {
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.DebugLevel

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("unable to init sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
	}
	if addr := os.Getenv("STATSVIEW_ADDR"); addr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))

		mgr := statsview.New()
		go mgr.Start()
	}

	local := virtual.Humanoid("local", mgl32.Vec3{}, 1.5)
	src := &scene{avatars: []dynbones.Avatar{{
		Object:     local,
		ObjectName: "local_avatar",
		Name:       "local",
		Local:      true,
		EyeHeight:  1.5,
	}}}
	for i, pos := range virtual.Rings(mgl32.Vec3{}, *clones, *rings, float32(*radius)) {
		name := fmt.Sprintf("clone %d", i+1)
		src.avatars = append(src.avatars, dynbones.Avatar{
			Object:     virtual.Humanoid(name, pos, 1.5),
			ObjectName: name + "_avatar",
			Name:       name,
			EyeHeight:  1.5,
		})
	}

	s := readSettings(log, *configPath)
	s.Manage = s.Manage || *manage
	m := dynbones.New(dynbones.Config{
		Log:          log,
		Settings:     s,
		SettingsPath: *configPath,
		Source:       src,
		Camera:       local.Head,
	})
	log.Infof("Simulating %d avatars for %d frames.", len(src.avatars), *frames)

	const dt = float32(1) / 60
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for frame := 0; frame < *frames; frame++ {
		<-ticker.C
		switch frame {
		case *frames / 3:
			if len(src.avatars) > 1 {
				src.avatars[1].Object.(*virtual.Rig).Move(mgl32.Vec3{50, 0, 0})
				log.Debugf("moved %s away", src.avatars[1].Name)
			}
		case *frames / 2:
			cycled := m.Settings()
			cycled.CycleMode()
			go m.Apply(cycled)
		}
		m.Tick(dt)
	}

	for p := range m.Broker().Entities() {
		log.WithFields(logrus.Fields{
			"bones":     p.DynamicBonesEnabled(),
			"colour":    p.Debug().Colour,
			"colliders": len(p.SharedColliders()),
		}).Info(p.Name())
	}
	log.Infof("Average tick time: %v", m.AverageTickTime())
	if err := m.Close(); err != nil {
		log.Errorf("unable to close manager: %v", err)
	}
}

// scene reports a fixed list of avatars.
type scene struct {
	avatars []dynbones.Avatar
}

func (s *scene) Avatars() iter.Seq[dynbones.Avatar] {
	return slices.Values(s.avatars)
}

// readSettings loads the settings file at path, creating it with the default settings if it does not exist.
func readSettings(log *logrus.Logger, path string) settings.Settings {
	s, err := settings.Load(path)
	if errors.Is(err, oerror.ErrSettingsMissing) {
		if err := settings.SaveDefault(path); err != nil {
			log.Fatalf("error creating settings: %v", err)
		}
		return settings.DefaultSettings()
	} else if err != nil {
		log.Fatalf("error reading settings: %v", err)
	}
	return s
}
