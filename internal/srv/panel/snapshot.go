package panel

// PumpStatus is the closed set of coolant pump states reported by the
// process collaborator.
type PumpStatus int

const (
	PumpOff PumpStatus = iota
	PumpStarting
	PumpOn
	PumpStopping
)

func (s PumpStatus) String() string {
	switch s {
	case PumpOff:
		return "OFF"
	case PumpStarting:
		return "STARTING"
	case PumpOn:
		return "ON"
	case PumpStopping:
		return "STOPPING"
	}
	return "?"
}

// Phase is the closed set of automatic-sequence phases. Labels arriving
// from the process collaborator are parsed with ParsePhase; anything
// unrecognized maps to PhaseUnknown and renders a generic progress line
// instead of erroring.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseIdle
	PhaseStartupPressure
	PhaseStartupPumps
	PhaseControlRods
	PhasePowerGeneration
	PhaseNormalOperation
	PhaseShutdown
	PhaseEmergency
)

func ParsePhase(label string) Phase {
	switch label {
	case "idle":
		return PhaseIdle
	case "startup_pressure":
		return PhaseStartupPressure
	case "startup_pumps":
		return PhaseStartupPumps
	case "control_rods":
		return PhaseControlRods
	case "power_generation":
		return PhasePowerGeneration
	case "normal_operation":
		return PhaseNormalOperation
	case "shutdown":
		return PhaseShutdown
	case "emergency":
		return PhaseEmergency
	}
	return PhaseUnknown
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStartupPressure:
		return "startup_pressure"
	case PhaseStartupPumps:
		return "startup_pumps"
	case PhaseControlRods:
		return "control_rods"
	case PhasePowerGeneration:
		return "power_generation"
	case PhaseNormalOperation:
		return "normal_operation"
	case PhaseShutdown:
		return "shutdown"
	case PhaseEmergency:
		return "emergency"
	}
	return "unknown"
}

// Snapshot is the read-only process state consumed once per tick. The
// panel never computes any of it, it only mirrors it onto the displays.
type Snapshot struct {
	Pressure float64 // bar

	PumpPrimary   PumpStatus
	PumpSecondary PumpStatus
	PumpTertiary  PumpStatus

	SafetyRod     int // 0-100 percent withdrawn
	ShimRod       int
	RegulatingRod int

	ThermalKW float64
	PowerMWe  float64

	Automatic  bool
	PhaseLabel string // only meaningful when Automatic

	Emergency bool
}
