package device

import (
	"github.com/sirupsen/logrus"
	"image"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"time"
)

// Oled is one small monochrome panel sitting behind the multiplexer. The
// caller is responsible for routing the right channel before any method
// that touches the wire; Oled itself only knows the shared bus handle.
type Oled struct {
	bus    i2c.Bus
	name   string
	width  int
	height int

	dev *ssd1306.Dev
}

func NewOled(bus i2c.Bus, name string, width, height int) *Oled {
	return &Oled{
		bus:    bus,
		name:   name,
		width:  width,
		height: height,
	}
}

// Probe initializes the display controller, retrying until the timeout
// expires. A display that never answers is simply reported as absent;
// partial panel population is an expected configuration.
func (o *Oled) Probe(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		dev, err := ssd1306.NewI2C(o.bus, &ssd1306.Opts{W: o.width, H: o.height})
		if err == nil {
			o.dev = dev
			logrus.Infof("Oled %s: initialized (%dx%d)", o.name, o.width, o.height)
			return true
		}
		if time.Now().After(deadline) {
			logrus.Warnf("Oled %s: no response: %v", o.name, err)
			return false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// Push sends a full frame to the display controller.
func (o *Oled) Push(img image.Image) bool {
	if o.dev == nil {
		logrus.Errorf("Oled %s: push on uninitialized display", o.name)
		return false
	}
	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		logrus.Errorf("Oled %s: unable to push frame: %v", o.name, err)
		return false
	}
	return true
}
