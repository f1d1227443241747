package device

import (
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"time"
)

type chip int

const (
	chipNone chip = iota
	chipDisplay
	chipDevice
)

// Display channel 0 on the display chip is wired to the satellite
// controller living next to the panel, so only 1..7 address displays.
const (
	firstDisplayChannel = 1
	lastDisplayChannel  = 7
	firstDeviceChannel  = 0
	lastDeviceChannel   = 2
)

// MuxPair coordinates the two chained channel-selector chips sharing one
// physical wire pair. Whenever a selection crosses from one chip to the
// other it inserts a settling pause, longer than the per-write settle,
// before the select is issued; consecutive selections on the same chip
// never pay that cost. Whether the two chips truly share one electrical
// bus could not be confirmed from the wiring docs, so the cross-chip
// pause is kept as a safe default.
type MuxPair struct {
	bus         i2c.BusCloser
	display     *Mux
	device      *Mux
	crossSettle time.Duration
	lastChip    chip

	sleep func(time.Duration)
}

// ScanResult holds the startup probe of both chips: channel number to
// acknowledging downstream addresses.
type ScanResult struct {
	Display map[int][]uint16
	Device  map[int][]uint16
}

func NewMuxPair(bus i2c.BusCloser, displayAddr, deviceAddr uint16, selectSettle, crossSettle time.Duration) *MuxPair {
	pair := &MuxPair{
		bus:         bus,
		display:     NewMux(bus, displayAddr, selectSettle),
		device:      NewMux(bus, deviceAddr, selectSettle),
		crossSettle: crossSettle,
		lastChip:    chipNone,
		sleep:       time.Sleep,
	}
	logrus.Infof("Mux pair initialized (displays 0x%02x, devices 0x%02x)", displayAddr, deviceAddr)
	return pair
}

// SelectDisplay routes one of the seven display channels on the display
// chip. Index 0 is rejected: that channel carries the co-located
// satellite controller and must be addressed through SelectDevice-like
// means by its own driver, never as a display.
func (p *MuxPair) SelectDisplay(index int) bool {
	if index < firstDisplayChannel || index > lastDisplayChannel {
		logrus.Errorf("Mux pair: invalid display index %d", index)
		return false
	}
	return p.selectOn(chipDisplay, p.display, index)
}

// SelectDevice routes a channel on the second chip: index 0 addresses the
// satellite controller, 1 and 2 the two remaining displays.
func (p *MuxPair) SelectDevice(index int) bool {
	if index < firstDeviceChannel || index > lastDeviceChannel {
		logrus.Errorf("Mux pair: invalid device index %d", index)
		return false
	}
	return p.selectOn(chipDevice, p.device, index)
}

func (p *MuxPair) selectOn(target chip, mux *Mux, channel int) bool {
	if p.lastChip != chipNone && p.lastChip != target {
		p.sleep(p.crossSettle)
	}
	p.lastChip = target
	return mux.Select(channel, false)
}

// ScanAll probes both chips for startup diagnostics. Each probe filters
// the sibling chip's address out of its results.
func (p *MuxPair) ScanAll() ScanResult {
	result := ScanResult{
		Display: p.display.Probe(p.device.addr),
		Device:  p.device.Probe(p.display.addr),
	}
	// The probe's final traffic was on the device chip, so a following
	// display selection still pays the cross-chip settle.
	p.lastChip = chipDevice
	return result
}

// Close disables all channels on both chips and releases the bus handle.
func (p *MuxPair) Close() {
	p.display.DeselectAll()
	p.device.DeselectAll()
	if err := p.bus.Close(); err != nil {
		logrus.Errorf("Mux pair: unable to close bus: %v", err)
		return
	}
	logrus.Infof("Mux pair closed")
}
