package sim

import (
	"github.com/pltnsim/panelctl/internal/srv/panel"
	"math"
	"time"
)

// Process replays a scripted plant cycle: a manual cold start through
// pressurization, pump starts and rod withdrawal, a stretch of automatic
// steady operation, an automatic shutdown, a short emergency stop, then
// back to cold. It stands in for the real process feed and exercises
// every display slot and guidance state.
type Process struct {
	ratedMWe float64
	start    time.Time
	now      func() time.Time
}

func NewProcess(ratedMWe float64) *Process {
	return &Process{
		ratedMWe: ratedMWe,
		start:    time.Now(),
		now:      time.Now,
	}
}

const cycleSeconds = 380

// Snapshot returns the plant state for the current wall-clock position
// in the cycle.
func (p *Process) Snapshot() panel.Snapshot {
	t := math.Mod(p.now().Sub(p.start).Seconds(), cycleSeconds)

	var s panel.Snapshot
	switch {
	case t < 180:
		p.startup(&s, t)
	case t < 300:
		p.steady(&s)
	case t < 330:
		p.shutdown(&s, t)
	case t < 345:
		s.Emergency = true
		s.Automatic = true
		s.PhaseLabel = panel.PhaseEmergency.String()
	default:
		// Cold plant, operator back in control.
	}
	return s
}

func (p *Process) startup(s *panel.Snapshot, t float64) {
	switch {
	case t < 25:
		s.Pressure = ramp(t, 5, 25, 0, 45)
	case t < 45:
		s.Pressure = 45
	default:
		s.Pressure = ramp(t, 45, 75, 45, 140)
	}

	s.PumpTertiary = pumpStartingAt(t, 25)
	s.PumpSecondary = pumpStartingAt(t, 32)
	s.PumpPrimary = pumpStartingAt(t, 39)

	s.SafetyRod = int(ramp(t, 75, 95, 0, 100))
	s.ShimRod = int(ramp(t, 95, 115, 0, 100))
	s.RegulatingRod = int(ramp(t, 115, 135, 0, 100))

	s.PowerMWe = ramp(t, 135, 175, 0, p.ratedMWe)
	s.ThermalKW = s.PowerMWe * 3000
}

func (p *Process) steady(s *panel.Snapshot) {
	s.Pressure = 140
	s.PumpPrimary = panel.PumpOn
	s.PumpSecondary = panel.PumpOn
	s.PumpTertiary = panel.PumpOn
	s.SafetyRod = 100
	s.ShimRod = 100
	s.RegulatingRod = 100
	s.PowerMWe = p.ratedMWe
	s.ThermalKW = s.PowerMWe * 3000
	s.Automatic = true
	s.PhaseLabel = panel.PhaseNormalOperation.String()
}

func (p *Process) shutdown(s *panel.Snapshot, t float64) {
	s.Automatic = true
	s.PhaseLabel = panel.PhaseShutdown.String()

	s.Pressure = ramp(t, 300, 330, 140, 0)
	s.SafetyRod = int(ramp(t, 300, 315, 100, 0))
	s.ShimRod = int(ramp(t, 300, 315, 100, 0))
	s.RegulatingRod = int(ramp(t, 300, 315, 100, 0))
	s.PowerMWe = ramp(t, 300, 315, p.ratedMWe, 0)
	s.ThermalKW = s.PowerMWe * 3000

	pump := panel.PumpOn
	switch {
	case t >= 325:
		pump = panel.PumpOff
	case t >= 315:
		pump = panel.PumpStopping
	}
	s.PumpPrimary = pump
	s.PumpSecondary = pump
	s.PumpTertiary = pump
}

// ramp interpolates linearly from v0 at t0 to v1 at t1, clamped outside
// the interval.
func ramp(t, t0, t1, v0, v1 float64) float64 {
	if t <= t0 {
		return v0
	}
	if t >= t1 {
		return v1
	}
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

func pumpStartingAt(t, at float64) panel.PumpStatus {
	switch {
	case t < at:
		return panel.PumpOff
	case t < at+5:
		return panel.PumpStarting
	}
	return panel.PumpOn
}
