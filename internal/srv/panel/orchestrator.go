package panel

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"image"
	"time"
)

// Slot indexes in the fixed update order: all display-chip channels
// first, then the device-chip ones, so one full sweep crosses chips at
// most once.
const (
	SlotPressurizer = iota
	SlotPumpPrimary
	SlotPumpSecondary
	SlotPumpTertiary
	SlotSafetyRod
	SlotShimRod
	SlotRegulatingRod
	SlotThermal
	SlotStatus
	SlotCount
)

// Screen is the display-driver collaborator bound to one slot. The
// orchestrator routes the bus channel before calling into it.
type Screen interface {
	Probe(timeout time.Duration) bool
	Push(img image.Image) bool
}

// Selector routes the shared bus to one display or device channel.
// Implemented by device.MuxPair and, trivially, by the simulation panel.
type Selector interface {
	SelectDisplay(index int) bool
	SelectDevice(index int) bool
}

type Config struct {
	PressureSpeed float64 // bar per second
	RodSpeed      float64 // percent per second
	PowerSpeed    float64 // thermal MW per second

	RatedPowerMWe float64

	// Pause after each frame push, letting the display controller finish
	// its internal refresh before the next command on the same channel.
	PushSettle   time.Duration
	ProbeTimeout time.Duration
}

var slotNames = [SlotCount]string{
	SlotPressurizer:   "pressurizer",
	SlotPumpPrimary:   "pump-primary",
	SlotPumpSecondary: "pump-secondary",
	SlotPumpTertiary:  "pump-tertiary",
	SlotSafetyRod:     "safety-rod",
	SlotShimRod:       "shim-rod",
	SlotRegulatingRod: "regulating-rod",
	SlotThermal:       "thermal-power",
	SlotStatus:        "status",
}

// SlotName returns the log identity of a slot index.
func SlotName(index int) string {
	return slotNames[index]
}

const pumpSentinel PumpStatus = -1

type slot struct {
	name         string // log identity
	title        string // first display line
	onDeviceChip bool
	channel      int
	screen       Screen

	// Interpolated value slots.
	interp *Interpolator
	target func(Snapshot) float64
	format func(int) string

	// Pump status slots, gated by raw comparison instead.
	pump     func(Snapshot) PumpStatus
	lastPump PumpStatus

	initialized bool
}

// Orchestrator owns the nine display slots and the operator-guidance
// state machine. It is single-owner and synchronous: the whole subsystem
// is driven by one caller invoking UpdateAll once per control-loop tick,
// and it assumes uncontested bus ownership for the duration of the call.
type Orchestrator struct {
	sel   Selector
	slots [SlotCount]*slot
	cfg   Config

	mem          guidanceMemory
	rules        []guidanceRule
	pending      *guidanceView
	lastGuidance string

	synced       bool
	wasEmergency bool

	now   func() time.Time
	sleep func(time.Duration)
}

func NewOrchestrator(sel Selector, screens [SlotCount]Screen, cfg Config) *Orchestrator {
	o := &Orchestrator{
		sel:   sel,
		cfg:   cfg,
		rules: newGuidanceRules(cfg.RatedPowerMWe),
		now:   time.Now,
		sleep: time.Sleep,
	}

	o.slots[SlotPressurizer] = &slot{
		name: slotNames[SlotPressurizer], title: "PRESSURIZER", channel: 1,
		interp: NewInterpolator("pressure", cfg.PressureSpeed),
		target: func(s Snapshot) float64 { return s.Pressure },
		format: func(v int) string { return fmt.Sprintf("%d bar", v) },
	}
	o.slots[SlotPumpPrimary] = &slot{
		name: slotNames[SlotPumpPrimary], title: "PUMP PRIMARY", channel: 2,
		pump: func(s Snapshot) PumpStatus { return s.PumpPrimary },
	}
	o.slots[SlotPumpSecondary] = &slot{
		name: slotNames[SlotPumpSecondary], title: "PUMP SECONDARY", channel: 3,
		pump: func(s Snapshot) PumpStatus { return s.PumpSecondary },
	}
	o.slots[SlotPumpTertiary] = &slot{
		name: slotNames[SlotPumpTertiary], title: "PUMP TERTIARY", channel: 4,
		pump: func(s Snapshot) PumpStatus { return s.PumpTertiary },
	}
	o.slots[SlotSafetyRod] = &slot{
		name: slotNames[SlotSafetyRod], title: "SAFETY ROD", channel: 5,
		interp: NewInterpolator("safety-rod", cfg.RodSpeed),
		target: func(s Snapshot) float64 { return float64(s.SafetyRod) },
		format: func(v int) string { return fmt.Sprintf("%d%%", v) },
	}
	o.slots[SlotShimRod] = &slot{
		name: slotNames[SlotShimRod], title: "SHIM ROD", channel: 6,
		interp: NewInterpolator("shim-rod", cfg.RodSpeed),
		target: func(s Snapshot) float64 { return float64(s.ShimRod) },
		format: func(v int) string { return fmt.Sprintf("%d%%", v) },
	}
	o.slots[SlotRegulatingRod] = &slot{
		name: slotNames[SlotRegulatingRod], title: "REG ROD", channel: 7,
		interp: NewInterpolator("regulating-rod", cfg.RodSpeed),
		target: func(s Snapshot) float64 { return float64(s.RegulatingRod) },
		format: func(v int) string { return fmt.Sprintf("%d%%", v) },
	}
	// Electrical output is surfaced by the guidance slot; the dedicated
	// power display carries the thermal figure, in megawatts.
	o.slots[SlotThermal] = &slot{
		name: slotNames[SlotThermal], title: "THERMAL PWR", onDeviceChip: true, channel: 1,
		interp: NewInterpolator("thermal-power", cfg.PowerSpeed),
		target: func(s Snapshot) float64 { return s.ThermalKW / 1000 },
		format: func(v int) string { return fmt.Sprintf("%d MW", v) },
	}
	o.slots[SlotStatus] = &slot{
		name: slotNames[SlotStatus], title: "STATUS", onDeviceChip: true, channel: 2,
	}

	for i, s := range o.slots {
		s.screen = screens[i]
		s.lastPump = pumpSentinel
	}
	return o
}

func (o *Orchestrator) selectSlot(s *slot) bool {
	if s.onDeviceChip {
		return o.sel.SelectDevice(s.channel)
	}
	return o.sel.SelectDisplay(s.channel)
}

// InitAll probes every slot with a bounded timeout and shows a ready
// banner on the ones that answer. Missing displays are disabled for the
// process lifetime and never abort startup. Returns the active count.
func (o *Orchestrator) InitAll() int {
	active := 0
	for _, s := range o.slots {
		if !o.selectSlot(s) {
			logrus.Warnf("Display %s: channel select failed, slot disabled", s.name)
			continue
		}
		if !s.screen.Probe(o.cfg.ProbeTimeout) {
			logrus.Warnf("Display %s: init failed, slot disabled", s.name)
			continue
		}
		s.initialized = true
		active++

		img := NewFrame()
		addCenteredLabel(img, 13, s.title)
		addCenteredLabel(img, 27, "Ready")
		s.screen.Push(img)
		o.sleep(o.cfg.PushSettle)
	}
	logrus.Infof("%d of %d displays active", active, SlotCount)
	return active
}

// UpdateAll pushes the snapshot onto every slot that actually changed,
// in the fixed slot order. Any hardware failure is absorbed here: the
// slot's last-rendered cache is left untouched so the next successful
// push is detected as a change, and the caller's loop is never blocked.
func (o *Orchestrator) UpdateAll(snap Snapshot) {
	if snap.Emergency && !o.wasEmergency {
		// Jump, don't glide, when the panel is slammed down.
		for _, s := range o.slots {
			if s.interp != nil {
				s.interp.Reset(s.target(snap))
			}
		}
	}
	o.wasEmergency = snap.Emergency

	first := !o.synced
	o.synced = true

	for _, s := range o.slots {
		switch {
		case s.interp != nil:
			o.updateValueSlot(s, snap, first)
		case s.pump != nil:
			o.updatePumpSlot(s, snap)
		}
	}
	o.updateGuidanceSlot(snap)
}

func (o *Orchestrator) updateValueSlot(s *slot, snap Snapshot, first bool) {
	if first {
		// Sync the freshly initialized display to existing state.
		s.interp.Reset(s.target(snap))
	} else {
		s.interp.SetTarget(s.target(snap))
	}

	v := s.interp.DisplayValue()
	if !s.interp.NeedsUpdate() {
		return
	}
	if !s.initialized {
		return
	}
	if !o.selectSlot(s) {
		s.interp.Invalidate()
		return
	}

	img := NewFrame()
	addCenteredLabel(img, 9, s.title)
	addBigCenteredLabel(img, 30, s.format(v))
	if !s.screen.Push(img) {
		s.interp.Invalidate()
		return
	}
	o.sleep(o.cfg.PushSettle)
}

func (o *Orchestrator) updatePumpSlot(s *slot, snap Snapshot) {
	status := s.pump(snap)
	if status == s.lastPump {
		return
	}
	if !s.initialized {
		return
	}
	if !o.selectSlot(s) {
		return
	}

	img := NewFrame()
	addCenteredLabel(img, 9, s.title)
	addBigCenteredLabel(img, 30, status.String())
	if !s.screen.Push(img) {
		return
	}
	s.lastPump = status
	o.sleep(o.cfg.PushSettle)
}

// The guidance slot renders one tick behind: the view computed on this
// tick is pushed on the next one, and only if it differs from what is
// already on the glass.
func (o *Orchestrator) updateGuidanceSlot(snap Snapshot) {
	view := o.guidance(snap)
	toPush := o.pending
	o.pending = &view

	if toPush == nil || toPush.key() == o.lastGuidance {
		return
	}

	s := o.slots[SlotStatus]
	if !s.initialized {
		return
	}
	if !o.selectSlot(s) {
		return
	}

	img := NewFrame()
	if toPush.banner {
		addBigCenteredLabel(img, 22, toPush.line1)
	} else {
		addCenteredLabel(img, 13, toPush.line1)
		if toPush.progress >= 0 {
			addProgressBar(img, 14, 18, 100, 9, float64(toPush.progress), 100)
		} else {
			addCenteredLabel(img, 27, toPush.line2)
		}
	}
	if !s.screen.Push(img) {
		return
	}
	o.lastGuidance = toPush.key()
	o.sleep(o.cfg.PushSettle)
}

// Health summarizes slot availability for the health collaborator.
type Health struct {
	Active int
	Total  int
	Failed []string
}

func (o *Orchestrator) Health() Health {
	h := Health{Total: SlotCount}
	for _, s := range o.slots {
		if s.initialized {
			h.Active++
		} else {
			h.Failed = append(h.Failed, s.name)
		}
	}
	return h
}

// Close shows a shutdown banner on every live display. The bus handle
// itself belongs to the coordinator and is released by its owner.
func (o *Orchestrator) Close() {
	for _, s := range o.slots {
		if !s.initialized {
			continue
		}
		if !o.selectSlot(s) {
			continue
		}
		img := NewFrame()
		addCenteredLabel(img, 20, "Panel off")
		s.screen.Push(img)
		o.sleep(o.cfg.PushSettle)
	}
	logrus.Infof("Display orchestrator closed")
}
