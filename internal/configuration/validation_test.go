package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() Configuration {
	return Configuration{
		MotionStepRate:      20 * time.Millisecond,
		DefaultMoveDuration: time.Second,
		Monitor: MonitorConfig{
			UpdateInterval:  time.Second,
			TrendBufferSize: 1000,
			AlertBufferSize: 100,
		},
		DefaultThresholds: ThresholdsConfig{
			TempWarning:     60,
			TempCritical:    75,
			CurrentWarning:  800,
			CurrentCritical: 1000,
			PositionError:   5,
		},
		Servos: []ServoConfig{
			{
				ID:       "leg_1_hip",
				Channel:  0,
				MinAngle: 0,
				MaxAngle: 180,
				File:     &FileServoConfig{Path: "/tmp/servo0"},
			},
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := validTestConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateDuplicateServoId(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Servos = append(config.Servos, ServoConfig{
		ID:       "leg_1_hip",
		Channel:  1,
		MinAngle: 0,
		MaxAngle: 180,
		File:     &FileServoConfig{Path: "/tmp/servo1"},
	})

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate servo id")
}

func TestValidateInvertedAngleLimits(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Servos[0].MinAngle = 120
	config.Servos[0].MaxAngle = 30

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateMissingDriver(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Servos[0].File = nil

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "driver sub-configuration is missing")
}

func TestValidateMultipleDrivers(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Servos[0].Cmd = &CmdServoConfig{Exec: "/usr/bin/servoctl"}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only one driver type")
}

func TestValidateBadCalibrationScale(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Servos[0].Calibration = &CalibrationConfig{Scale: 0}

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateThresholdOrdering(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.DefaultThresholds.TempWarning = 80

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}

func TestValidateMonitorInterval(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Monitor.UpdateInterval = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
}
