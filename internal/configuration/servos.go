package configuration

import "time"

type ServoConfig struct {
	ID      string `json:"id"`
	Channel int    `json:"channel"`

	// MinAngle and MaxAngle define the safe operating range of this
	// servo in logical (pre-calibration) degrees. Immutable at runtime.
	MinAngle float64 `json:"minAngle"`
	MaxAngle float64 `json:"maxAngle"`

	// DefaultSpeed in degrees per second, used to compute the default
	// movement duration when a command specifies neither
	DefaultSpeed float64 `json:"defaultSpeed"`

	Calibration *CalibrationConfig `json:"calibration,omitempty"`
	Thresholds  *ThresholdsConfig  `json:"thresholds,omitempty"`
	Telemetry   *TelemetryConfig   `json:"telemetry,omitempty"`

	File *FileServoConfig `json:"file,omitempty"`
	Cmd  *CmdServoConfig  `json:"cmd,omitempty"`
}

type CalibrationConfig struct {
	Offset float64 `json:"offset"`
	Scale  float64 `json:"scale"`
	Trim   float64 `json:"trim"`
}

// TelemetryConfig describes file-based telemetry sources for a servo,
// e.g. sysfs attributes exposed by the servo controller driver. Empty
// paths mean the metric is not readable from the host and arrives via
// the API instead.
type TelemetryConfig struct {
	TemperatureFile string `json:"temperatureFile,omitempty"`
	CurrentFile     string `json:"currentFile,omitempty"`
	VoltageFile     string `json:"voltageFile,omitempty"`

	PollingRate time.Duration `json:"pollingRate,omitempty"`
}

// FileServoConfig drives a servo by writing the physical angle to a
// file path, e.g. a sysfs attribute exposed by a PWM controller driver.
type FileServoConfig struct {
	Path string `json:"path"`
}

// CmdServoConfig drives a servo by invoking an external command with
// channel and angle appended as arguments.
type CmdServoConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}
