package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func f(value float64) *float64 {
	return &value
}

func TestEvaluateHealthy(t *testing.T) {
	// GIVEN
	telemetry := Telemetry{Temperature: f(50), Current: f(300)}

	// WHEN
	verdict := Evaluate(telemetry, DefaultThresholds())

	// THEN
	assert.Equal(t, StatusHealthy, verdict.Status)
	assert.Empty(t, verdict.Violations)
}

func TestEvaluateTemperatureWarning(t *testing.T) {
	// GIVEN
	telemetry := Telemetry{Temperature: f(65)}

	// WHEN
	verdict := Evaluate(telemetry, DefaultThresholds())

	// THEN
	assert.Equal(t, StatusWarning, verdict.Status)
	assert.Equal(t, []string{MetricTemperature}, verdict.Violations)
}

func TestEvaluateTemperatureCritical(t *testing.T) {
	// GIVEN
	telemetry := Telemetry{Temperature: f(80)}

	// WHEN
	verdict := Evaluate(telemetry, DefaultThresholds())

	// THEN
	assert.Equal(t, StatusCritical, verdict.Status)
	assert.Equal(t, []string{MetricTemperature}, verdict.Violations)
}

func TestEvaluateCriticalBeatsWarning(t *testing.T) {
	// GIVEN temperature in warning range, current in critical range
	telemetry := Telemetry{Temperature: f(65), Current: f(1200)}

	// WHEN
	verdict := Evaluate(telemetry, DefaultThresholds())

	// THEN
	assert.Equal(t, StatusCritical, verdict.Status)
	assert.Equal(t, []string{MetricCurrent}, verdict.Violations)
}

func TestEvaluateMissingFieldsAreExcluded(t *testing.T) {
	// GIVEN no telemetry at all
	telemetry := Telemetry{}

	// WHEN
	verdict := Evaluate(telemetry, DefaultThresholds())

	// THEN
	assert.Equal(t, StatusHealthy, verdict.Status)
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	// GIVEN
	now := time.Now()
	telemetry := Telemetry{Temperature: f(45), Current: f(300), Voltage: f(5)}

	// WHEN
	merged := telemetry.Merge(Telemetry{Temperature: f(50), Timestamp: now})

	// THEN
	assert.Equal(t, 50.0, *merged.Temperature)
	assert.Equal(t, 300.0, *merged.Current)
	assert.Equal(t, 5.0, *merged.Voltage)
	assert.Equal(t, now, merged.Timestamp)
}

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, StatusHealthy.Severity(), StatusWarning.Severity())
	assert.Less(t, StatusWarning.Severity(), StatusCritical.Severity())
	assert.Less(t, StatusCritical.Severity(), StatusError.Severity())
}
