package sim

import (
	"github.com/pltnsim/panelctl/internal/srv/panel"
	"testing"
	"time"
)

func snapshotAt(t *testing.T, seconds float64) panel.Snapshot {
	t.Helper()
	p := NewProcess(100)
	start := time.Unix(0, 0)
	p.start = start
	p.now = func() time.Time { return start.Add(time.Duration(seconds * float64(time.Second))) }
	return p.Snapshot()
}

func TestProcessColdStart(t *testing.T) {
	s := snapshotAt(t, 0)
	if s.Pressure != 0 || s.Automatic || s.Emergency {
		t.Fatalf("cold snapshot = %+v", s)
	}
	if s.PumpTertiary != panel.PumpOff || s.SafetyRod != 0 {
		t.Fatalf("cold snapshot = %+v", s)
	}
}

func TestProcessPumpOrdering(t *testing.T) {
	s := snapshotAt(t, 27)
	if s.PumpTertiary != panel.PumpStarting {
		t.Fatalf("tertiary at t=27: %v", s.PumpTertiary)
	}
	if s.PumpSecondary != panel.PumpOff || s.PumpPrimary != panel.PumpOff {
		t.Fatalf("pumps out of order at t=27: %+v", s)
	}

	s = snapshotAt(t, 34)
	if s.PumpTertiary != panel.PumpOn || s.PumpSecondary != panel.PumpStarting {
		t.Fatalf("pumps out of order at t=34: %+v", s)
	}

	s = snapshotAt(t, 50)
	if s.PumpPrimary != panel.PumpOn {
		t.Fatalf("primary not on at t=50: %v", s.PumpPrimary)
	}
}

func TestProcessRodOrdering(t *testing.T) {
	s := snapshotAt(t, 85)
	if s.SafetyRod <= 0 || s.SafetyRod >= 100 {
		t.Fatalf("safety rod at t=85: %d", s.SafetyRod)
	}
	if s.ShimRod != 0 || s.RegulatingRod != 0 {
		t.Fatalf("rods out of order at t=85: %+v", s)
	}

	s = snapshotAt(t, 140)
	if s.SafetyRod != 100 || s.ShimRod != 100 || s.RegulatingRod != 100 {
		t.Fatalf("rods not up at t=140: %+v", s)
	}
	if s.Pressure != 140 {
		t.Fatalf("pressure at t=140: %v", s.Pressure)
	}
}

func TestProcessSteadyIsAutomatic(t *testing.T) {
	s := snapshotAt(t, 200)
	if !s.Automatic || s.PhaseLabel != "normal_operation" {
		t.Fatalf("steady snapshot = %+v", s)
	}
	if s.PowerMWe != 100 {
		t.Fatalf("power at steady state: %v", s.PowerMWe)
	}
}

func TestProcessEmergencyWindow(t *testing.T) {
	s := snapshotAt(t, 340)
	if !s.Emergency || s.PhaseLabel != "emergency" {
		t.Fatalf("snapshot at t=340: %+v", s)
	}
	if s.Pressure != 0 || s.SafetyRod != 0 {
		t.Fatalf("plant not scrammed at t=340: %+v", s)
	}
}

func TestProcessCycleWraps(t *testing.T) {
	s := snapshotAt(t, cycleSeconds+10)
	if s.Pressure == 0 || s.Automatic {
		t.Fatalf("snapshot one cycle later = %+v", s)
	}
}
