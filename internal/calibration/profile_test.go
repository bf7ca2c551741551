package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfileMap() map[string]interface{} {
	return map[string]interface{}{
		"profile_name": "walking_gait",
		"created_at":   "2026-01-12T10:30:00Z",
		"servo_count":  1,
		"servos": map[string]interface{}{
			"leg_1_hip": map[string]interface{}{
				"offset":        5.0,
				"scale":         1.0,
				"trim":          0.5,
				"min_angle":     0.0,
				"max_angle":     180.0,
				"calibrated_at": "2026-01-12T10:30:00Z",
			},
		},
	}
}

func TestDecodeProfile(t *testing.T) {
	// WHEN
	profile, err := DecodeProfile(validProfileMap())

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "walking_gait", profile.ProfileName)
	servoProfile, ok := profile.Get("leg_1_hip")
	assert.True(t, ok)
	assert.Equal(t, 5.0, servoProfile.Offset)
}

func TestDecodeProfileRejectsUnknownKeys(t *testing.T) {
	// GIVEN
	raw := validProfileMap()
	raw["favourite_color"] = "green"

	// WHEN
	_, err := DecodeProfile(raw)

	// THEN
	assert.Error(t, err)
}

func TestDecodeProfileRejectsInvalidScale(t *testing.T) {
	// GIVEN
	raw := validProfileMap()
	raw["servos"].(map[string]interface{})["leg_1_hip"].(map[string]interface{})["scale"] = -1.0

	// WHEN
	_, err := DecodeProfile(raw)

	// THEN
	assert.ErrorIs(t, err, ErrInvalidCalibration)
}

func TestDecodeProfileRejectsInvertedLimits(t *testing.T) {
	// GIVEN
	raw := validProfileMap()
	servo := raw["servos"].(map[string]interface{})["leg_1_hip"].(map[string]interface{})
	servo["min_angle"] = 120.0
	servo["max_angle"] = 20.0

	// WHEN
	_, err := DecodeProfile(raw)

	// THEN
	assert.Error(t, err)
}

func TestProfileSetUpdatesServoCount(t *testing.T) {
	// GIVEN
	profile := NewProfile("test")

	// WHEN
	profile.Set("a", ServoProfile{Scale: 1, MaxAngle: 180})
	profile.Set("b", ServoProfile{Scale: 1, MaxAngle: 180})
	profile.Set("a", ServoProfile{Scale: 1.1, MaxAngle: 180})

	// THEN
	assert.Equal(t, 2, profile.ServoCount)
}

func TestEstimateOffset(t *testing.T) {
	// GIVEN
	measurements := []Measurement{
		{Target: 0, Actual: 2},
		{Target: 90, Actual: 93},
		{Target: 180, Actual: 181},
	}

	// WHEN
	offset := EstimateOffset(measurements)

	// THEN
	assert.InDelta(t, -2.0, offset, 1e-9)
}

func TestEstimateOffsetNoMeasurements(t *testing.T) {
	// WHEN
	offset := EstimateOffset(nil)

	// THEN
	assert.Equal(t, 0.0, offset)
}
