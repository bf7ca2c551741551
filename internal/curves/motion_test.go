package curves

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCurveValidNames(t *testing.T) {
	for _, name := range []string{CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut} {
		// WHEN
		curve, err := NewCurve(name)

		// THEN
		assert.NoError(t, err)
		assert.Equal(t, Curve(name), curve)
	}
}

func TestNewCurveEmptyNameDefaultsToLinear(t *testing.T) {
	// WHEN
	curve, err := NewCurve("")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Curve(CurveLinear), curve)
}

func TestNewCurveUnknownName(t *testing.T) {
	// WHEN
	_, err := NewCurve("bounce")

	// THEN
	assert.Error(t, err)
}

func TestPositionStartAndEndpointsAreExact(t *testing.T) {
	// GIVEN
	start := 10.0
	target := 137.5
	duration := 2 * time.Second

	for _, name := range []string{CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut} {
		curve := Curve(name)

		// WHEN / THEN
		assert.Equal(t, start, Position(start, target, duration, curve, 0))
		assert.Equal(t, target, Position(start, target, duration, curve, duration))
		assert.Equal(t, target, Position(start, target, duration, curve, duration+time.Second))
	}
}

func TestPositionLinearMidpoint(t *testing.T) {
	// GIVEN
	duration := 2 * time.Second

	// WHEN
	result := Position(0, 100, duration, CurveLinear, time.Second)

	// THEN
	assert.InDelta(t, 50.0, result, 1e-9)
}

func TestPositionZeroDurationIsInstantaneous(t *testing.T) {
	// WHEN
	result := Position(0, 90, 0, CurveEaseInOut, 0)

	// THEN
	assert.Equal(t, 90.0, result)
}

func TestEaseInOutMidpointIsExact(t *testing.T) {
	// WHEN
	result := Curve(CurveEaseInOut).Shape(0.5)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestEaseInEaseOutSymmetry(t *testing.T) {
	// the quadratic family satisfies ease_in(p) + ease_out(1-p) == 1
	for p := 0.0; p <= 1.0; p += 0.125 {
		// WHEN
		sum := Curve(CurveEaseIn).Shape(p) + Curve(CurveEaseOut).Shape(1-p)

		// THEN
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestEaseInOutIsContinuousAtCenter(t *testing.T) {
	// GIVEN
	curve := Curve(CurveEaseInOut)

	// WHEN
	below := curve.Shape(0.5 - 1e-9)
	above := curve.Shape(0.5 + 1e-9)

	// THEN
	assert.InDelta(t, below, above, 1e-7)
}
