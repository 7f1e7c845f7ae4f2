// Package settings holds the global tunables of the broker and reads and writes them as TOML.
package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/dynbones/internal"
	"github.com/oomph-ac/dynbones/oerror"
	"github.com/pelletier/go-toml"
	"github.com/zeebo/xxh3"
)

// Mode decides whose colliders may deflect whose bone chains.
type Mode int

const (
	// ModeDisabled switches off every tracked chain.
	ModeDisabled Mode = iota - 1
	// ModeLocal shares colliders of other entities with the local entity only.
	ModeLocal
	// ModeGlobalForPlayer shares colliders between the local entity and everyone else, both ways.
	ModeGlobalForPlayer
	// ModeGlobalForEveryone shares colliders between every pair of entities.
	ModeGlobalForEveryone
)

func (m Mode) String() string {
	switch m {
	case ModeDisabled:
		return "disabled"
	case ModeLocal:
		return "local"
	case ModeGlobalForPlayer:
		return "global for player"
	case ModeGlobalForEveryone:
		return "global for everyone"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// RateMode decides how the update rate of a chain is chosen.
type RateMode int

const (
	// RateConstant always uses the maximum update rate.
	RateConstant RateMode = iota
	// RateDistanceDependent interpolates between the maximum and minimum update rate by distance.
	RateDistanceDependent
)

func (m RateMode) String() string {
	switch m {
	case RateConstant:
		return "constant"
	case RateDistanceDependent:
		return "distance dependent"
	}
	return fmt.Sprintf("rate mode(%d)", int(m))
}

// ColliderFilter selects which colliders of an entity are given to others.
type ColliderFilter int

const (
	// FilterAll shares every shareable collider.
	FilterAll ColliderFilter = iota
	// FilterUpperBody shares the colliders found from the chest onwards.
	FilterUpperBody
	// FilterHandsOnly shares the colliders under the hands.
	FilterHandsOnly
)

func (f ColliderFilter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterUpperBody:
		return "upper body"
	case FilterHandsOnly:
		return "hands only"
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// Settings contains every tunable of the broker.
type Settings struct {
	// Manage is whether the broker controls chains at all. When false every chain is left untouched.
	Manage bool `comment:"Whether dynamic bones are managed at all."`
	// Mode decides whose colliders affect whose chains.
	Mode Mode `comment:"-1: disabled, 0: local, 1: global for player, 2: global for everyone."`
	// WorkingDistance is the distance from the camera within which chains of others simulate. Zero means
	// no limit.
	WorkingDistance float32 `comment:"Distance in metres within which bones of others simulate. 0 means no limit."`
	// UpdateRateMode decides how update rates are chosen.
	UpdateRateMode RateMode `comment:"0: constant, 1: distance dependent."`
	// MaxUpdateRate is the update rate used up close. Zero means the display refresh rate.
	MaxUpdateRate float32 `comment:"Update rate up close. 0 means the display refresh rate."`
	// MinUpdateRate is the update rate used at the working distance. Zero means the display refresh rate.
	MinUpdateRate float32 `comment:"Update rate at the working distance. 0 means the display refresh rate."`
	// LocalCollidersFilter selects which colliders of the local entity are shared.
	LocalCollidersFilter ColliderFilter `comment:"0: all, 1: upper body, 2: hands only."`
	// OthersCollidersFilter selects which colliders of other entities are shared.
	OthersCollidersFilter ColliderFilter `comment:"0: all, 1: upper body, 2: hands only."`
	// Optimizations enables the distance based activation and the proximity test between entities.
	Optimizations bool `comment:"Whether to skip distant entities and entities that are not close to each other."`
	// ShowDebug shows the bounds of every entity.
	ShowDebug bool `comment:"Whether to show the bounds of every entity."`

	// MinimumWorkingDistance is the distance up to which MaxUpdateRate is used.
	MinimumWorkingDistance float32
	// CollisionSwitchRange is the width of the band around WorkingDistance in which entities keep their
	// previous activation state.
	CollisionSwitchRange float32
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Manage:                 false,
		Mode:                   ModeLocal,
		WorkingDistance:        5,
		UpdateRateMode:         RateDistanceDependent,
		MaxUpdateRate:          0,
		MinUpdateRate:          30,
		LocalCollidersFilter:   FilterAll,
		OthersCollidersFilter:  FilterAll,
		Optimizations:          true,
		ShowDebug:              false,
		MinimumWorkingDistance: 1.5,
		CollisionSwitchRange:   0.3,
	}
}

// Fingerprint returns a hash of the encoded settings, used to find out whether they need to be saved.
func (s Settings) Fingerprint() uint64 {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)
	if err := toml.NewEncoder(buf).Encode(s); err != nil {
		return 0
	}
	return xxh3.Hash(buf.Bytes())
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an
// error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return oerror.ErrSettingsExist
	}
	return Save(path, DefaultSettings())
}

// Save writes s to the file at path, replacing it if it exists.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed writing settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist. Values
// missing from the file keep their defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Settings{}, oerror.ErrSettingsMissing
	} else if err != nil {
		return Settings{}, fmt.Errorf("error reading settings: %w", err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	return s, nil
}
