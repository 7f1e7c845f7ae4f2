package settings

import "slices"

var (
	modes           = []Mode{ModeLocal, ModeGlobalForPlayer, ModeGlobalForEveryone}
	workingDistance = []float32{3, 5, 10, 20, 40, 0}
	rateModes       = []RateMode{RateConstant, RateDistanceDependent}
	maxUpdateRates  = []float32{30, 60, 90, 120, 0}
	minUpdateRates  = []float32{15, 30, 60, 90, 0}
	filters         = []ColliderFilter{FilterAll, FilterUpperBody, FilterHandsOnly}
)

// next returns the value following v in values, wrapping around. A value not found in values is followed by
// the first value.
func next[T comparable](values []T, v T) T {
	i := slices.Index(values, v)
	return values[(i+1)%len(values)]
}

// CycleMode moves Mode to the next mode that shares colliders. ModeDisabled is never cycled to; from
// ModeDisabled the next mode is ModeLocal.
func (s *Settings) CycleMode() {
	s.Mode = next(modes, s.Mode)
}

// CycleWorkingDistance moves WorkingDistance to the next preset. The last preset, zero, means no limit.
func (s *Settings) CycleWorkingDistance() {
	s.WorkingDistance = next(workingDistance, s.WorkingDistance)
}

// CycleUpdateRateMode moves UpdateRateMode to the next mode.
func (s *Settings) CycleUpdateRateMode() {
	s.UpdateRateMode = next(rateModes, s.UpdateRateMode)
}

// CycleMaxUpdateRate moves MaxUpdateRate to the next preset. If the minimum rate is no longer below the new
// maximum, it is lowered to match.
func (s *Settings) CycleMaxUpdateRate() {
	s.MaxUpdateRate = next(maxUpdateRates, s.MaxUpdateRate)
	if s.MaxUpdateRate != 0 && s.MinUpdateRate >= s.MaxUpdateRate {
		s.MinUpdateRate = s.MaxUpdateRate
	}
}

// CycleMinUpdateRate moves MinUpdateRate to the next preset. A preset that is not below a limited maximum
// rate is replaced by zero.
func (s *Settings) CycleMinUpdateRate() {
	s.MinUpdateRate = next(minUpdateRates, s.MinUpdateRate)
	if s.MaxUpdateRate != 0 && s.MinUpdateRate >= s.MaxUpdateRate {
		s.MinUpdateRate = 0
	}
}

// CycleLocalCollidersFilter moves LocalCollidersFilter to the next filter.
func (s *Settings) CycleLocalCollidersFilter() {
	s.LocalCollidersFilter = next(filters, s.LocalCollidersFilter)
}

// CycleOthersCollidersFilter moves OthersCollidersFilter to the next filter.
func (s *Settings) CycleOthersCollidersFilter() {
	s.OthersCollidersFilter = next(filters, s.OthersCollidersFilter)
}
