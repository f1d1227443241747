package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultParamCreatedAndParsed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "panelctl")

	sc := NewServerConfig(dir, false, true)

	if _, err := os.Stat(sc.GetCompleteParamFilename()); err != nil {
		t.Fatalf("default param file not written: %v", err)
	}

	if sc.I2cParam.DisplayMuxAddr != 0x70 || sc.I2cParam.DeviceMuxAddr != 0x71 {
		t.Fatalf("mux addresses = 0x%02x 0x%02x", sc.I2cParam.DisplayMuxAddr, sc.I2cParam.DeviceMuxAddr)
	}
	if sc.TimingParam.Tick() != 100*time.Millisecond {
		t.Fatalf("tick = %v", sc.TimingParam.Tick())
	}
	if sc.TimingParam.CrossSettle() <= sc.TimingParam.SelectSettle() {
		t.Fatalf("cross settle %v not longer than select settle %v",
			sc.TimingParam.CrossSettle(), sc.TimingParam.SelectSettle())
	}
	if sc.RatedPowerMWe != 100 {
		t.Fatalf("rated power = %v", sc.RatedPowerMWe)
	}
}

func TestParamRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "panelctl")

	sc := NewServerConfig(dir, false, true)
	sc.SpeedParam.Rod = 75
	sc.ApiParam.Port = 7070
	sc.SaveParam()

	reloaded := NewServerConfig(dir, false, true)
	if reloaded.SpeedParam.Rod != 75 {
		t.Fatalf("rod speed = %v after reload", reloaded.SpeedParam.Rod)
	}
	if reloaded.ApiParam.Port != 7070 {
		t.Fatalf("api port = %v after reload", reloaded.ApiParam.Port)
	}
}
