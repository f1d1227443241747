package srv

import (
	"github.com/sirupsen/logrus"
	"time"
)

// controlLoop drives the whole display subsystem: one snapshot read and
// one orchestrator pass per tick. Everything that touches the bus runs
// on this goroutine.
func (s *ServerApp) controlLoop() {
	ticker := time.NewTicker(s.ServerParam.TimingParam.Tick())
	defer ticker.Stop()

	for loop := true; loop; {
		select {
		case <-s.loopAskDone:
			loop = false
		case <-ticker.C:
			s.orchestrator.UpdateAll(s.process.Snapshot())
		}
	}
	logrus.Debugf("Control loop stopped")
	s.loopDone <- true
}
