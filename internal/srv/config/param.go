package config

import (
	_ "embed"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	I2cParam      I2cParam    `yaml:"i2c"`
	TimingParam   TimingParam `yaml:"timing"`
	SpeedParam    SpeedParam  `yaml:"speeds"`
	RatedPowerMWe float64     `yaml:"rated_power_mwe"`
	ApiParam      ApiParam    `yaml:"api"`
}

type I2cParam struct {
	// Empty bus name selects the platform's first bus.
	BusName        string `yaml:"bus_name"`
	DisplayMuxAddr uint16 `yaml:"display_mux_addr"`
	DeviceMuxAddr  uint16 `yaml:"device_mux_addr"`
}

type TimingParam struct {
	TickMs         int64 `yaml:"tick_ms"`
	SelectSettleMs int64 `yaml:"select_settle_ms"`
	CrossSettleMs  int64 `yaml:"cross_settle_ms"`
	PushSettleMs   int64 `yaml:"push_settle_ms"`
	ProbeTimeoutMs int64 `yaml:"probe_timeout_ms"`
}

func (tp TimingParam) Tick() time.Duration         { return time.Duration(tp.TickMs) * time.Millisecond }
func (tp TimingParam) SelectSettle() time.Duration { return time.Duration(tp.SelectSettleMs) * time.Millisecond }
func (tp TimingParam) CrossSettle() time.Duration  { return time.Duration(tp.CrossSettleMs) * time.Millisecond }
func (tp TimingParam) PushSettle() time.Duration   { return time.Duration(tp.PushSettleMs) * time.Millisecond }
func (tp TimingParam) ProbeTimeout() time.Duration { return time.Duration(tp.ProbeTimeoutMs) * time.Millisecond }

// SpeedParam bounds how fast each displayed quantity may move, in
// display units per second.
type SpeedParam struct {
	Pressure float64 `yaml:"pressure"`
	Rod      float64 `yaml:"rod"`
	Power    float64 `yaml:"power"` // thermal megawatts per second
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	Port    int64  `yaml:"port"`
	ApiKey  string `yaml:"api_key"`
}
