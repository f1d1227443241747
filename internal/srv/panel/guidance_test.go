package panel

import (
	"testing"
	"time"
)

func eatBanner(o *Orchestrator, snap Snapshot) {
	o.guidance(snap)
}

func TestGuidanceModeBanner(t *testing.T) {
	o, _, _, _ := newTestOrchestrator()
	manual := Snapshot{Pressure: 10}
	auto := Snapshot{Automatic: true, PhaseLabel: "normal_operation"}

	v := o.guidance(manual)
	if !v.banner || v.line1 != "MANUAL" {
		t.Fatalf("first manual view = %+v, want MANUAL banner", v)
	}
	if v = o.guidance(manual); v.banner {
		t.Fatalf("banner repeated: %+v", v)
	}

	v = o.guidance(auto)
	if !v.banner || v.line1 != "AUTOMATIC" {
		t.Fatalf("first automatic view = %+v, want AUTOMATIC banner", v)
	}
	if v = o.guidance(auto); v.banner || v.line1 != "NORMAL OPERATION" {
		t.Fatalf("post-banner automatic view = %+v", v)
	}

	if v = o.guidance(manual); !v.banner || v.line1 != "MANUAL" {
		t.Fatalf("banner not reshown on return to manual: %+v", v)
	}
}

func TestGuidanceManualSequence(t *testing.T) {
	pumpsOn := func(s Snapshot) Snapshot {
		s.PumpPrimary = PumpOn
		s.PumpSecondary = PumpOn
		s.PumpTertiary = PumpOn
		return s
	}

	tests := []struct {
		name         string
		snap         Snapshot
		wantLine1    string
		wantLine2    string
		wantProgress int
	}{
		{
			name:         "low pressure",
			snap:         Snapshot{Pressure: 10},
			wantLine1:    "RAISE PRESSURE",
			wantLine2:    "TO 45 BAR",
			wantProgress: -1,
		},
		{
			name:         "pumps allowed, tertiary first",
			snap:         Snapshot{Pressure: 45},
			wantLine1:    "START TERTIARY",
			wantLine2:    "PUMP",
			wantProgress: -1,
		},
		{
			name:         "tertiary starting",
			snap:         Snapshot{Pressure: 45, PumpTertiary: PumpStarting},
			wantLine1:    "TERTIARY PUMP",
			wantLine2:    "STARTING, WAIT",
			wantProgress: -1,
		},
		{
			name:         "tertiary on, secondary next",
			snap:         Snapshot{Pressure: 45, PumpTertiary: PumpOn},
			wantLine1:    "START SECONDARY",
			wantLine2:    "PUMP",
			wantProgress: -1,
		},
		{
			name:         "secondary on, primary next",
			snap:         Snapshot{Pressure: 45, PumpTertiary: PumpOn, PumpSecondary: PumpOn},
			wantLine1:    "START PRIMARY",
			wantLine2:    "PUMP",
			wantProgress: -1,
		},
		{
			name:         "pumps on, operating pressure next",
			snap:         pumpsOn(Snapshot{Pressure: 60}),
			wantLine1:    "RAISE PRESSURE",
			wantLine2:    "TO 140 BAR",
			wantProgress: -1,
		},
		{
			name:         "safety rod first",
			snap:         pumpsOn(Snapshot{Pressure: 140, SafetyRod: 40}),
			wantLine1:    "RAISE SAFETY ROD",
			wantProgress: 40,
		},
		{
			name:         "shim rod after safety",
			snap:         pumpsOn(Snapshot{Pressure: 140, SafetyRod: 100}),
			wantLine1:    "RAISE SHIM ROD",
			wantProgress: 0,
		},
		{
			name:         "shim and regulating both moving",
			snap:         pumpsOn(Snapshot{Pressure: 140, SafetyRod: 100, ShimRod: 50, RegulatingRod: 20}),
			wantLine1:    "RAISE SHIM ROD",
			wantLine2:    "THEN REGULATING",
			wantProgress: -1,
		},
		{
			name:         "regulating rod last",
			snap:         pumpsOn(Snapshot{Pressure: 140, SafetyRod: 100, ShimRod: 100, RegulatingRod: 50}),
			wantLine1:    "RAISE REG ROD",
			wantProgress: 50,
		},
		{
			name:         "rods up, power rising",
			snap:         pumpsOn(Snapshot{Pressure: 140, SafetyRod: 100, ShimRod: 100, RegulatingRod: 100, PowerMWe: 50}),
			wantLine1:    "POWER RISING",
			wantLine2:    "50.0 MWe",
			wantProgress: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, _, _ := newTestOrchestrator()
			eatBanner(o, tt.snap)

			v := o.guidance(tt.snap)
			if v.banner {
				t.Fatalf("got a banner: %+v", v)
			}
			if v.line1 != tt.wantLine1 || v.line2 != tt.wantLine2 || v.progress != tt.wantProgress {
				t.Fatalf("got %+v, want {%q %q %d}", v, tt.wantLine1, tt.wantLine2, tt.wantProgress)
			}
		})
	}
}

func TestGuidanceIdleBlink(t *testing.T) {
	o, _, _, advance := newTestOrchestrator()
	rest := Snapshot{}
	eatBanner(o, rest)

	first := o.guidance(rest)
	if first.line1 != "REACTOR PANEL" && first.line1 != "READY TO START" {
		t.Fatalf("unexpected idle view: %+v", first)
	}

	// Within the blink period the phrase holds steady.
	advance(300 * time.Millisecond)
	if v := o.guidance(rest); v.line1 != first.line1 {
		t.Fatalf("phrase changed inside blink period: %+v", v)
	}

	advance(time.Second)
	second := o.guidance(rest)
	if second.line1 == first.line1 {
		t.Fatalf("phrase did not alternate: %+v", second)
	}
}

func TestGuidanceFullPowerBlink(t *testing.T) {
	o, _, _, advance := newTestOrchestrator()
	snap := steadySnapshot()
	snap.PowerMWe = 99.8
	eatBanner(o, snap)

	v := o.guidance(snap)
	if v.line1 != "FULL POWER" && v.line1 != "STEADY STATE" {
		t.Fatalf("unexpected full-power view: %+v", v)
	}
	if v.line2 != "99.8 MWe" {
		t.Fatalf("power line = %q, want 99.8 MWe", v.line2)
	}

	advance(time.Second)
	if next := o.guidance(snap); next.line1 == v.line1 {
		t.Fatalf("full-power phrase did not alternate: %+v", next)
	}
}

func TestGuidanceAutomaticPhases(t *testing.T) {
	tests := []struct {
		label     string
		wantLine1 string
	}{
		{"idle", "STANDBY"},
		{"startup_pressure", "PRESSURIZING"},
		{"startup_pumps", "STARTING PUMPS"},
		{"control_rods", "WITHDRAWING RODS"},
		{"power_generation", "GENERATING"},
		{"normal_operation", "NORMAL OPERATION"},
		{"shutdown", "SHUTTING DOWN"},
		{"emergency", "EMERGENCY STOP"},
		{"no_such_phase", "SEQUENCE"},
	}

	o, _, _, _ := newTestOrchestrator()
	eatBanner(o, Snapshot{Automatic: true, PhaseLabel: "idle"})

	for _, tt := range tests {
		v := o.guidance(Snapshot{Automatic: true, PhaseLabel: tt.label})
		if v.line1 != tt.wantLine1 {
			t.Errorf("phase %q: got %q, want %q", tt.label, v.line1, tt.wantLine1)
		}
	}
}
