// Package config loads the per-car tuning file: motor acceleration
// limits, geometry, turning envelope and pin mapping. Adapted from the
// retrieval pack's pan/tilt camera rig config loader, generalized from
// stepper/camera settings to the motion-control domain.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SexyGoat/ArtCar/internal/motor"
)

// AccLimitsConfig is the YAML shape of one motor.AccLimits.
type AccLimitsConfig struct {
	MaxFwdAccel float64 `yaml:"max_fwd_accel"`
	MaxFwdDecel float64 `yaml:"max_fwd_decel"`
	MaxRevAccel float64 `yaml:"max_rev_accel"`
	MaxRevDecel float64 `yaml:"max_rev_decel"`
	MaxJerk     float64 `yaml:"max_jerk"`
}

// ToAccLimits converts the loaded YAML record to a motor.AccLimits.
func (a AccLimitsConfig) ToAccLimits() motor.AccLimits {
	return motor.NewAccLimits(a.MaxFwdAccel, a.MaxFwdDecel, a.MaxRevAccel, a.MaxRevDecel, a.MaxJerk)
}

// GeometryConfig holds the scalar geometry and speed caps of the car
// aggregate, consumed to build and InitComputedValues a car.Car.
type GeometryConfig struct {
	AxleWidthM      float64 `yaml:"axle_width_m"`
	MaxWheelSpeedMS float64 `yaml:"max_wheel_speed_ms"`
	MaxBodySpeedMS  float64 `yaml:"max_body_speed_ms"`
	JogFactor       float64 `yaml:"jog_factor"`
	TurnJogFactor   float64 `yaml:"turn_jog_factor"`
}

// TurnCapsConfig holds the lateral-acceleration envelope.
type TurnCapsConfig struct {
	MaxLatAccelMS2      float64 `yaml:"max_lat_accel_ms2"`
	MaxTurnRateDegS     float64 `yaml:"max_turn_rate_deg_s"`
	ReversingOmegaSlope float64 `yaml:"reversing_omega_slope"`
	ReverseTurns        bool    `yaml:"reverse_turns"`
}

// PinConfig names a single virtual output pin by Arduino-style pin
// number, sense and drive mode string ("push_pull", "open_drain",
// "open_drain_pullup", "sink_only").
type PinConfig struct {
	Pin       int    `yaml:"pin"`
	Sense     string `yaml:"sense"`      // "active_high" or "active_low"
	DriveMode string `yaml:"drive_mode"` // see above
}

// Config aggregates all per-car configuration loaded at boot.
type Config struct {
	CruiseMAL  AccLimitsConfig `yaml:"cruise_mal"`
	BrakingMAL AccLimitsConfig `yaml:"braking_mal"`
	WheelMAL   AccLimitsConfig `yaml:"wheel_mal"`

	Geometry GeometryConfig `yaml:"geometry"`
	Turning  TurnCapsConfig `yaml:"turning"`

	OutputPins       []PinConfig `yaml:"output_pins"`
	CalibrationStore string      `yaml:"calibration_store"`
	TelemetryDevice  string      `yaml:"telemetry_device"`

	StatusLEDPin int `yaml:"status_led_pin"`
}

// Load reads a YAML config file from path, applying ArtCar's defaults
// to the geometry, turning, calibration-store and telemetry-device
// fields the file leaves at their zero value. The motor acceleration
// limits have no defaults: zero limits fail validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Geometry.AxleWidthM == 0 {
		c.Geometry.AxleWidthM = 1.0
	}
	if c.Geometry.MaxWheelSpeedMS == 0 {
		c.Geometry.MaxWheelSpeedMS = 1.0
	}
	if c.Geometry.MaxBodySpeedMS == 0 {
		c.Geometry.MaxBodySpeedMS = c.Geometry.MaxWheelSpeedMS
	}
	if c.Geometry.JogFactor == 0 {
		c.Geometry.JogFactor = 0.25
	}
	if c.Geometry.TurnJogFactor == 0 {
		c.Geometry.TurnJogFactor = 0.25
	}
	if c.Turning.MaxLatAccelMS2 == 0 {
		c.Turning.MaxLatAccelMS2 = 4.0
	}
	if c.Turning.MaxTurnRateDegS == 0 {
		c.Turning.MaxTurnRateDegS = 90.0
	}
	if c.Turning.ReversingOmegaSlope == 0 {
		c.Turning.ReversingOmegaSlope = 1.0
	}
	if c.CalibrationStore == "" {
		c.CalibrationStore = "gamepad_cal.yaml"
	}
	if c.TelemetryDevice == "" {
		c.TelemetryDevice = "/dev/ttyUSB0"
	}
}

func (c *Config) validate() error {
	if c.Geometry.AxleWidthM <= 0 {
		return fmt.Errorf("geometry.axle_width_m must be > 0")
	}
	if c.Geometry.MaxWheelSpeedMS <= 0 {
		return fmt.Errorf("geometry.max_wheel_speed_ms must be > 0")
	}
	if c.Turning.MaxLatAccelMS2 <= 0 {
		return fmt.Errorf("turning.max_lat_accel_ms2 must be > 0")
	}
	for _, mal := range []AccLimitsConfig{c.CruiseMAL, c.BrakingMAL, c.WheelMAL} {
		if mal.MaxFwdAccel <= 0 || mal.MaxFwdDecel <= 0 || mal.MaxRevAccel <= 0 || mal.MaxRevDecel <= 0 || mal.MaxJerk <= 0 {
			return fmt.Errorf("motor acceleration limits must all be strictly positive")
		}
	}
	return nil
}
