package panel

import (
	"fmt"
	"time"
)

// Mode is the operator mode derived from the snapshot.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeManual
	ModeAutomatic
)

// Process thresholds driving the manual startup sequence.
const (
	pressureMinPumps  = 45.0  // bar, pump start interlock
	pressureOperating = 140.0 // bar, nominal operating point
	rodFull           = 100   // percent withdrawn
	fullPowerRatio    = 0.997 // of rated electrical output
	idleBlinkPeriod   = time.Second
)

type guidanceMemory struct {
	lastMode     Mode
	bannerShown  bool
	blinkPhase   bool
	blinkToggled time.Time
}

// guidanceView is one fully computed status frame: either a large mode
// banner, or two text lines, or a text line over a progress bar.
type guidanceView struct {
	banner   bool
	line1    string
	line2    string
	progress int // 0-100 bar rendered instead of line2, -1 when unused
}

func (v guidanceView) key() string {
	return fmt.Sprintf("%t|%s|%s|%d", v.banner, v.line1, v.line2, v.progress)
}

func lines(a, b string) guidanceView {
	return guidanceView{line1: a, line2: b, progress: -1}
}

func barView(title string, position int) guidanceView {
	return guidanceView{line1: title, progress: position}
}

// guidanceRule is one entry of the ordered manual-mode instruction list.
// The first matching rule wins; later rules may therefore assume the
// conditions of all earlier ones are satisfied.
type guidanceRule struct {
	when func(Snapshot) bool
	view func(Snapshot) guidanceView
}

// guidance computes the status view for this snapshot. It also advances
// the small amount of state the status display carries across ticks: the
// last seen mode, whether its banner has been shown, and the idle blink.
func (o *Orchestrator) guidance(snap Snapshot) guidanceView {
	mode := ModeManual
	if snap.Automatic {
		mode = ModeAutomatic
	}
	if mode != o.mem.lastMode {
		o.mem.lastMode = mode
		o.mem.bannerShown = false
	}
	if !o.mem.bannerShown {
		o.mem.bannerShown = true
		if mode == ModeAutomatic {
			return guidanceView{banner: true, line1: "AUTOMATIC", progress: -1}
		}
		return guidanceView{banner: true, line1: "MANUAL", progress: -1}
	}

	if mode == ModeAutomatic {
		return phaseView(ParsePhase(snap.PhaseLabel))
	}

	if rest, atPower := o.idleState(snap); rest || atPower {
		return o.idleView(rest, snap)
	}

	for _, r := range o.rules {
		if r.when(snap) {
			return r.view(snap)
		}
	}
	// Unreachable, the last rule always matches.
	return lines("SEQUENCE", "IN PROGRESS")
}

// idleState classifies the two stable plant states that get a blinking
// prompt instead of an instruction: everything shut down, or everything
// up and holding rated power.
func (o *Orchestrator) idleState(snap Snapshot) (rest, atPower bool) {
	rest = snap.Pressure <= 0 &&
		snap.PumpPrimary == PumpOff &&
		snap.PumpSecondary == PumpOff &&
		snap.PumpTertiary == PumpOff &&
		snap.SafetyRod == 0 && snap.ShimRod == 0 && snap.RegulatingRod == 0
	atPower = snap.SafetyRod == rodFull &&
		snap.ShimRod == rodFull &&
		snap.RegulatingRod == rodFull &&
		snap.PowerMWe >= fullPowerRatio*o.cfg.RatedPowerMWe
	return rest, atPower
}

func (o *Orchestrator) idleView(rest bool, snap Snapshot) guidanceView {
	now := o.now()
	if o.mem.blinkToggled.IsZero() || now.Sub(o.mem.blinkToggled) >= idleBlinkPeriod {
		o.mem.blinkPhase = !o.mem.blinkPhase
		o.mem.blinkToggled = now
	}
	if rest {
		if o.mem.blinkPhase {
			return lines("REACTOR PANEL", "")
		}
		return lines("READY TO START", "")
	}
	mwe := fmt.Sprintf("%.1f MWe", snap.PowerMWe)
	if o.mem.blinkPhase {
		return lines("FULL POWER", mwe)
	}
	return lines("STEADY STATE", mwe)
}

func pumpView(name string, status PumpStatus) guidanceView {
	if status == PumpStarting {
		return lines(name+" PUMP", "STARTING, WAIT")
	}
	return lines("START "+name, "PUMP")
}

// newGuidanceRules builds the ordered manual startup checklist: raise
// pressure to the pump interlock, start pumps tertiary first, reach
// operating pressure, withdraw rods safety then shim then regulating,
// then watch power climb to rated.
func newGuidanceRules(ratedMWe float64) []guidanceRule {
	fullPower := fullPowerRatio * ratedMWe
	inPumpBand := func(s Snapshot) bool {
		return s.Pressure >= pressureMinPumps && s.Pressure < pressureOperating
	}
	return []guidanceRule{
		{
			when: func(s Snapshot) bool { return s.Pressure < pressureMinPumps },
			view: func(s Snapshot) guidanceView {
				return lines("RAISE PRESSURE", fmt.Sprintf("TO %.0f BAR", pressureMinPumps))
			},
		},
		{
			when: func(s Snapshot) bool { return inPumpBand(s) && s.PumpTertiary != PumpOn },
			view: func(s Snapshot) guidanceView { return pumpView("TERTIARY", s.PumpTertiary) },
		},
		{
			when: func(s Snapshot) bool { return inPumpBand(s) && s.PumpSecondary != PumpOn },
			view: func(s Snapshot) guidanceView { return pumpView("SECONDARY", s.PumpSecondary) },
		},
		{
			when: func(s Snapshot) bool { return inPumpBand(s) && s.PumpPrimary != PumpOn },
			view: func(s Snapshot) guidanceView { return pumpView("PRIMARY", s.PumpPrimary) },
		},
		{
			when: func(s Snapshot) bool { return s.Pressure < pressureOperating },
			view: func(s Snapshot) guidanceView {
				return lines("RAISE PRESSURE", fmt.Sprintf("TO %.0f BAR", pressureOperating))
			},
		},
		{
			when: func(s Snapshot) bool { return s.SafetyRod < rodFull },
			view: func(s Snapshot) guidanceView { return barView("RAISE SAFETY ROD", s.SafetyRod) },
		},
		{
			when: func(s Snapshot) bool { return s.ShimRod < rodFull },
			view: func(s Snapshot) guidanceView {
				if s.ShimRod > 0 && s.RegulatingRod > 0 {
					return lines("RAISE SHIM ROD", "THEN REGULATING")
				}
				return barView("RAISE SHIM ROD", s.ShimRod)
			},
		},
		{
			when: func(s Snapshot) bool { return s.RegulatingRod < rodFull },
			view: func(s Snapshot) guidanceView { return barView("RAISE REG ROD", s.RegulatingRod) },
		},
		{
			when: func(s Snapshot) bool { return true },
			view: func(s Snapshot) guidanceView {
				mwe := fmt.Sprintf("%.1f MWe", s.PowerMWe)
				if s.PowerMWe < fullPower {
					return lines("POWER RISING", mwe)
				}
				return lines("FULL POWER", mwe)
			},
		},
	}
}

func phaseView(p Phase) guidanceView {
	switch p {
	case PhaseIdle:
		return lines("STANDBY", "AWAITING START")
	case PhaseStartupPressure:
		return lines("PRESSURIZING", "PRIMARY CIRCUIT")
	case PhaseStartupPumps:
		return lines("STARTING PUMPS", "COOLANT FLOW")
	case PhaseControlRods:
		return lines("WITHDRAWING RODS", "REACTIVITY UP")
	case PhasePowerGeneration:
		return lines("GENERATING", "TURBINE RISING")
	case PhaseNormalOperation:
		return lines("NORMAL OPERATION", "AT RATED POWER")
	case PhaseShutdown:
		return lines("SHUTTING DOWN", "RODS INSERTING")
	case PhaseEmergency:
		return lines("EMERGENCY STOP", "ALL RODS IN")
	case PhaseUnknown:
	}
	return lines("SEQUENCE", "IN PROGRESS")
}
