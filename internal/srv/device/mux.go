package device

import (
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"time"
)

const muxChannelCount = 8

// Address range swept by Probe. 0x00-0x02 and 0x78-0x7f are reserved by
// the I2C spec and answering there would be noise anyway.
const (
	scanFirstAddr uint16 = 0x03
	scanLastAddr  uint16 = 0x77
)

// Mux drives one TCA9548A-class channel selector: eight downstream I2C
// channels behind a single upstream address, at most one channel exposed
// at a time. The active channel is cached so that re-selecting it is free.
type Mux struct {
	bus     i2c.Bus
	addr    uint16
	settle  time.Duration
	current int // -1 when unknown or all channels off

	sleep func(time.Duration)
}

func NewMux(bus i2c.Bus, addr uint16, settle time.Duration) *Mux {
	return &Mux{
		bus:     bus,
		addr:    addr,
		settle:  settle,
		current: -1,
		sleep:   time.Sleep,
	}
}

// Select exposes the given downstream channel, implicitly disabling all
// others on this chip. Selecting the already active channel without force
// touches nothing on the wire. Never panics: a bus failure is logged, the
// cache is invalidated and false is returned.
func (m *Mux) Select(channel int, force bool) bool {
	if channel < 0 || channel >= muxChannelCount {
		logrus.Errorf("Mux 0x%02x: invalid channel %d", m.addr, channel)
		return false
	}

	if !force && channel == m.current {
		return true
	}

	if err := m.bus.Tx(m.addr, []byte{1 << uint(channel)}, nil); err != nil {
		logrus.Errorf("Mux 0x%02x: unable to select channel %d: %v", m.addr, channel, err)
		m.current = -1
		return false
	}
	m.sleep(m.settle)
	m.current = channel

	logrus.Debugf("Mux 0x%02x: channel %d selected", m.addr, channel)
	return true
}

// DeselectAll turns every channel off. Used at shutdown and after a
// detected failure.
func (m *Mux) DeselectAll() bool {
	m.current = -1
	if err := m.bus.Tx(m.addr, []byte{0x00}, nil); err != nil {
		logrus.Errorf("Mux 0x%02x: unable to disable channels: %v", m.addr, err)
		return false
	}
	logrus.Debugf("Mux 0x%02x: all channels disabled", m.addr)
	return true
}

// Current returns the cached active channel, -1 if none.
func (m *Mux) Current() int {
	return m.current
}

// Probe sweeps all eight channels and scans each for acknowledging
// downstream addresses. Startup diagnostics only, never on the hot path.
// Own and skipped addresses are excluded: a sibling selector sharing the
// wire acks on every channel and would pollute every list.
func (m *Mux) Probe(skip ...uint16) map[int][]uint16 {
	found := make(map[int][]uint16)

	for channel := 0; channel < muxChannelCount; channel++ {
		if !m.Select(channel, true) {
			continue
		}
		var addrs []uint16
	scan:
		for addr := scanFirstAddr; addr <= scanLastAddr; addr++ {
			if addr == m.addr {
				continue
			}
			for _, s := range skip {
				if addr == s {
					continue scan
				}
			}
			var probe [1]byte
			if err := m.bus.Tx(addr, nil, probe[:]); err == nil {
				addrs = append(addrs, addr)
			}
		}
		if len(addrs) > 0 {
			found[channel] = addrs
			logrus.Infof("Mux 0x%02x: channel %d: %d device(s)", m.addr, channel, len(addrs))
		}
	}

	m.DeselectAll()
	return found
}
