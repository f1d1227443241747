package srv

import (
	"github.com/pltnsim/panelctl/apimodel"
	"github.com/pltnsim/panelctl/internal/srv/config"
	"github.com/pltnsim/panelctl/internal/srv/device"
	"github.com/pltnsim/panelctl/internal/srv/panel"
	"github.com/pltnsim/panelctl/internal/srv/sim"
	"github.com/pltnsim/panelctl/internal/version"
	"github.com/sirupsen/logrus"
	"os"
	"os/exec"
	"time"
)

type ServerApp struct {
	*config.ServerConfig

	muxPair  *device.MuxPair // nil in simulation mode
	simPanel *device.SimPanel

	orchestrator *panel.Orchestrator
	process      *sim.Process
	apiDevice    *device.Api

	startTime time.Time

	loopAskDone chan bool
	loopDone    chan bool
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of panelctl server %s ...", version.AppVersion.String())

	app := &ServerApp{
		ServerConfig: config.NewServerConfig(configDir, debugMode, simulationMode),
		loopAskDone:  make(chan bool),
		loopDone:     make(chan bool),
	}

	app.process = sim.NewProcess(app.ServerParam.RatedPowerMWe)

	var selector panel.Selector
	var screens [panel.SlotCount]panel.Screen

	if app.SimulationMode {
		app.simPanel = device.NewSimPanel()
		selector = app.simPanel
		for i := range screens {
			screens[i] = app.simPanel.Screen(i)
		}
	} else {
		bus := device.OpenBus(app.ServerParam.I2cParam.BusName)
		app.muxPair = device.NewMuxPair(
			bus,
			app.ServerParam.I2cParam.DisplayMuxAddr,
			app.ServerParam.I2cParam.DeviceMuxAddr,
			app.ServerParam.TimingParam.SelectSettle(),
			app.ServerParam.TimingParam.CrossSettle())
		selector = app.muxPair
		for i := range screens {
			screens[i] = device.NewOled(bus, panel.SlotName(i), panel.FrameWidth, panel.FrameHeight)
		}
	}

	app.orchestrator = panel.NewOrchestrator(selector, screens, panel.Config{
		PressureSpeed: app.ServerParam.SpeedParam.Pressure,
		RodSpeed:      app.ServerParam.SpeedParam.Rod,
		PowerSpeed:    app.ServerParam.SpeedParam.Power,
		RatedPowerMWe: app.ServerParam.RatedPowerMWe,
		PushSettle:    app.ServerParam.TimingParam.PushSettle(),
		ProbeTimeout:  app.ServerParam.TimingParam.ProbeTimeout(),
	})

	app.apiDevice = device.NewApi(app.ServerConfig, app.panelHealth)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting panelctl server ...")

	s.startTime = time.Now()

	if s.SimulationMode {
		s.simPanel.Start()
	} else {
		// Startup wiring diagnostics, never on the hot path.
		result := s.muxPair.ScanAll()
		logrus.Infof("Bus scan: %d display channel(s), %d device channel(s) populated",
			len(result.Display), len(result.Device))
	}

	s.orchestrator.InitAll()

	// Start api device
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Start()
	}

	// Start control loop
	go s.controlLoop()
}

func (s *ServerApp) Stop(halt bool) {
	logrus.Printf("Stopping panelctl server ...")

	// Stop api
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Stop()
	}

	// Stop control loop
	logrus.Infof("Stop control loop")
	s.loopAskDone <- true
	<-s.loopDone

	// Display shutdown banners
	s.orchestrator.Close()

	if s.SimulationMode {
		s.simPanel.Stop()
	} else {
		s.muxPair.Close()
	}

	logrus.Printf("Server stopped")

	if halt {
		logrus.Printf("System halt")
		haltCmd := exec.Command("sudo", "halt")
		err := haltCmd.Run()
		if err != nil {
			logrus.Panicf("Unable to halt the system: %v", err)
		}
	}
	os.Exit(0)
}

// Scan sweeps every multiplexer channel and logs the devices answering
// on each one. Used by the scan command for wiring diagnostics.
func (s *ServerApp) Scan() {
	if s.SimulationMode {
		logrus.Infof("Simulation mode: no bus to scan")
		return
	}
	result := s.muxPair.ScanAll()
	for channel, addrs := range result.Display {
		logrus.Infof("Display mux channel %d: %#v", channel, addrs)
	}
	for channel, addrs := range result.Device {
		logrus.Infof("Device mux channel %d: %#v", channel, addrs)
	}
	s.muxPair.Close()
}

func (s *ServerApp) panelHealth() apimodel.PanelHealth {
	health := s.orchestrator.Health()
	return apimodel.PanelHealth{
		ActiveDisplays: health.Active,
		TotalDisplays:  health.Total,
		FailedSlots:    health.Failed,
		Version:        version.AppVersion.String(),
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
	}
}
