package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCoerceWithinRange(t *testing.T) {
	// GIVEN
	value := 50.0

	// WHEN
	result := Coerce(value, 0, 100)

	// THEN
	assert.Equal(t, 50.0, result)
}

func TestCoerceAboveRange(t *testing.T) {
	// GIVEN
	value := 120.0

	// WHEN
	result := Coerce(value, 0, 100)

	// THEN
	assert.Equal(t, 100.0, result)
}

func TestCoerceBelowRange(t *testing.T) {
	// GIVEN
	value := -10.0

	// WHEN
	result := Coerce(value, 0, 100)

	// THEN
	assert.Equal(t, 0.0, result)
}

func TestRatio(t *testing.T) {
	// GIVEN
	target := 75.0

	// WHEN
	result := Ratio(target, 50, 100)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{1, 2, 3}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 2.0, result)
}

func TestUpdateSimpleMovingAvg(t *testing.T) {
	// GIVEN
	oldAvg := 10.0

	// WHEN
	newAvg := UpdateSimpleMovingAvg(oldAvg, 2, 20.0)

	// THEN
	assert.Equal(t, 15.0, newAvg)
}
