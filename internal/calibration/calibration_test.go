package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	// GIVEN
	c := Calibration{Offset: 5, Scale: 1.1, Trim: 0.5}

	// WHEN
	physical := c.Apply(90)

	// THEN
	assert.InDelta(t, 90*1.1+5+0.5, physical, 1e-9)
}

func TestApplyIdentity(t *testing.T) {
	// GIVEN
	c := Default()

	// WHEN
	physical := c.Apply(42.5)

	// THEN
	assert.Equal(t, 42.5, physical)
}

func TestInverseRoundTrip(t *testing.T) {
	// GIVEN
	c := Calibration{Offset: -3.2, Scale: 0.95, Trim: 1.25}

	for _, physical := range []float64{0, 12.5, 90, 179.9} {
		// WHEN
		roundTrip := c.Apply(c.Inverse(physical))

		// THEN
		assert.InDelta(t, physical, roundTrip, 1e-9)
	}
}

func TestValidateRejectsNonPositiveScale(t *testing.T) {
	// GIVEN
	c := Calibration{Scale: 0}

	// WHEN
	err := c.Validate()

	// THEN
	assert.ErrorIs(t, err, ErrInvalidCalibration)
}

func TestValidateAcceptsPositiveScale(t *testing.T) {
	// GIVEN
	c := Calibration{Scale: 0.5}

	// WHEN
	err := c.Validate()

	// THEN
	assert.NoError(t, err)
}
