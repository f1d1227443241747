package device

import (
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// OpenBus initializes the host drivers and opens the named bus. An
// empty name selects the platform's first available bus. The panel
// cannot run without a bus, so failures are fatal.
func OpenBus(name string) i2c.BusCloser {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize host drivers: %v\n", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		logrus.Fatalf("Unable to open i2c bus: %v\n", err)
	}
	return bus
}
