package device

import (
	"errors"
	"periph.io/x/conn/v3/physic"
	"testing"
	"time"
)

type busWrite struct {
	addr uint16
	data []byte
}

// fakeBus records writes and acknowledges reads for the configured
// addresses, standing in for the real wire.
type fakeBus struct {
	writes     []busWrite
	failWrites bool
	present    map[uint16]bool
	closed     bool
}

func (b *fakeBus) String() string { return "fake" }

func (b *fakeBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 {
		if b.failWrites {
			return errors.New("write failed")
		}
		data := make([]byte, len(w))
		copy(data, w)
		b.writes = append(b.writes, busWrite{addr: addr, data: data})
		return nil
	}
	if b.present[addr] {
		return nil
	}
	return errors.New("no ack")
}

func newTestMux(bus *fakeBus) (*Mux, *int) {
	m := NewMux(bus, 0x70, 2*time.Millisecond)
	settles := 0
	m.sleep = func(time.Duration) { settles++ }
	return m, &settles
}

func TestMuxSelectWritesOneHotMask(t *testing.T) {
	tests := []struct {
		channel int
		want    byte
	}{
		{0, 0x01},
		{3, 0x08},
		{7, 0x80},
	}
	for _, tt := range tests {
		bus := &fakeBus{}
		m, _ := newTestMux(bus)

		if !m.Select(tt.channel, false) {
			t.Fatalf("Select(%d) failed", tt.channel)
		}
		if len(bus.writes) != 1 {
			t.Fatalf("channel %d: got %d writes, want 1", tt.channel, len(bus.writes))
		}
		w := bus.writes[0]
		if w.addr != 0x70 {
			t.Errorf("channel %d: wrote to 0x%02x, want 0x70", tt.channel, w.addr)
		}
		if len(w.data) != 1 || w.data[0] != tt.want {
			t.Errorf("channel %d: wrote %#v, want [0x%02x]", tt.channel, w.data, tt.want)
		}
		if m.Current() != tt.channel {
			t.Errorf("channel %d: Current() = %d", tt.channel, m.Current())
		}
	}
}

func TestMuxSelectIdempotent(t *testing.T) {
	bus := &fakeBus{}
	m, settles := newTestMux(bus)

	m.Select(2, false)
	m.Select(2, false)
	if len(bus.writes) != 1 {
		t.Fatalf("got %d writes, want 1", len(bus.writes))
	}
	if *settles != 1 {
		t.Fatalf("got %d settles, want 1", *settles)
	}

	m.Select(2, true)
	if len(bus.writes) != 2 {
		t.Fatalf("after force: got %d writes, want 2", len(bus.writes))
	}
}

func TestMuxSelectInvalidChannel(t *testing.T) {
	bus := &fakeBus{}
	m, _ := newTestMux(bus)

	for _, channel := range []int{-1, 8, 42} {
		if m.Select(channel, false) {
			t.Errorf("Select(%d) succeeded", channel)
		}
	}
	if len(bus.writes) != 0 {
		t.Fatalf("invalid channels reached the wire: %#v", bus.writes)
	}
}

func TestMuxSelectFailureInvalidatesCache(t *testing.T) {
	bus := &fakeBus{failWrites: true}
	m, _ := newTestMux(bus)

	if m.Select(4, false) {
		t.Fatal("Select succeeded on a failing bus")
	}
	if m.Current() != -1 {
		t.Fatalf("Current() = %d after failure, want -1", m.Current())
	}

	bus.failWrites = false
	if !m.Select(4, false) {
		t.Fatal("Select failed after bus recovery")
	}
	if len(bus.writes) != 1 {
		t.Fatalf("recovery select did not reach the wire")
	}
}

func TestMuxDeselectAll(t *testing.T) {
	bus := &fakeBus{}
	m, _ := newTestMux(bus)

	m.Select(5, false)
	if !m.DeselectAll() {
		t.Fatal("DeselectAll failed")
	}
	last := bus.writes[len(bus.writes)-1]
	if last.data[0] != 0x00 {
		t.Fatalf("last write %#v, want [0x00]", last.data)
	}
	if m.Current() != -1 {
		t.Fatalf("Current() = %d, want -1", m.Current())
	}
}

func TestMuxProbe(t *testing.T) {
	bus := &fakeBus{present: map[uint16]bool{0x3c: true, 0x70: true}}
	m, _ := newTestMux(bus)

	found := m.Probe()
	if len(found) != muxChannelCount {
		t.Fatalf("got %d channels with devices, want %d", len(found), muxChannelCount)
	}
	for channel, addrs := range found {
		if len(addrs) != 1 || addrs[0] != 0x3c {
			t.Errorf("channel %d: got %#v, want [0x3c]", channel, addrs)
		}
	}

	// Probe ends with everything dark.
	last := bus.writes[len(bus.writes)-1]
	if last.data[0] != 0x00 {
		t.Fatalf("probe did not deselect, last write %#v", last.data)
	}
}

func TestMuxProbeSkipsSiblingAddress(t *testing.T) {
	// The sibling selector acks on every channel; it must never show up
	// as a downstream device.
	bus := &fakeBus{present: map[uint16]bool{0x3c: true, 0x71: true}}
	m, _ := newTestMux(bus)

	found := m.Probe(0x71)
	for channel, addrs := range found {
		for _, addr := range addrs {
			if addr == 0x71 {
				t.Fatalf("channel %d lists the sibling selector", channel)
			}
		}
		if len(addrs) != 1 || addrs[0] != 0x3c {
			t.Errorf("channel %d: got %#v, want [0x3c]", channel, addrs)
		}
	}
}
