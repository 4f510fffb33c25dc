package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artcar.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
cruise_mal:
  max_fwd_accel: 1.0
  max_fwd_decel: 1.0
  max_rev_accel: 1.0
  max_rev_decel: 1.0
  max_jerk: 2.0
braking_mal:
  max_fwd_accel: 1.0
  max_fwd_decel: 3.0
  max_rev_accel: 3.0
  max_rev_decel: 1.0
  max_jerk: 4.0
wheel_mal:
  max_fwd_accel: 1.0
  max_fwd_decel: 1.0
  max_rev_accel: 1.0
  max_rev_decel: 1.0
  max_jerk: 2.0
geometry:
  axle_width_m: 0.6
  max_wheel_speed_ms: 1.5
`

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geometry.AxleWidthM != 0.6 {
		t.Errorf("axle_width_m = %v, want 0.6", cfg.Geometry.AxleWidthM)
	}
	if cfg.Geometry.MaxBodySpeedMS != cfg.Geometry.MaxWheelSpeedMS {
		t.Errorf("max_body_speed_ms should default to max_wheel_speed_ms")
	}
	if cfg.Geometry.JogFactor != 0.25 {
		t.Errorf("jog_factor default = %v, want 0.25", cfg.Geometry.JogFactor)
	}
	if cfg.Turning.MaxLatAccelMS2 != 4.0 {
		t.Errorf("max_lat_accel_ms2 default = %v, want 4.0", cfg.Turning.MaxLatAccelMS2)
	}
	if cfg.CalibrationStore != "gamepad_cal.yaml" {
		t.Errorf("calibration_store default = %q, want gamepad_cal.yaml", cfg.CalibrationStore)
	}
}

func TestLoadMissingMALIsRejected(t *testing.T) {
	yaml := `
geometry:
  axle_width_m: 0.6
  max_wheel_speed_ms: 1.5
`
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for zero motor acceleration limits, got nil")
	}
}

func TestLoadNegativeAxleWidthIsRejected(t *testing.T) {
	yaml := strings.Replace(validYAML, "axle_width_m: 0.6", "axle_width_m: -0.6", 1)
	path := writeConfig(t, yaml)
	if _, err := Load(path); err == nil {
		t.Error("expected error for axle_width_m <= 0, got nil")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Load(path); err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{not yaml")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestAccLimitsConfigToAccLimits(t *testing.T) {
	a := AccLimitsConfig{MaxFwdAccel: 1, MaxFwdDecel: 2, MaxRevAccel: 3, MaxRevDecel: 4, MaxJerk: 5}
	mal := a.ToAccLimits()
	if mal.MaxFwdAccel != 1 || mal.MaxFwdDecel != 2 || mal.MaxRevAccel != 3 || mal.MaxRevDecel != 4 || mal.MaxJerk != 5 {
		t.Errorf("ToAccLimits() = %+v, want fields copied in order", mal)
	}
}
