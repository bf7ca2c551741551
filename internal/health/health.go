package health

import (
	"time"
)

// Status is the derived health classification of a servo. It is always
// recomputed from the current telemetry and thresholds, never stored as
// ground truth.
type Status string

const (
	StatusHealthy  Status = "HEALTHY"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
	// StatusError is reserved for execution level faults (failed driver
	// writes, rejected commands) and is latched by the servo itself.
	StatusError Status = "ERROR"
)

// Severity orders statuses for transition comparisons.
func (s Status) Severity() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusCritical:
		return 2
	case StatusError:
		return 3
	default:
		return 0
	}
}

// metric names used in verdict violations and trend buffers
const (
	MetricTemperature = "temperature"
	MetricCurrent     = "current"
	MetricVoltage     = "voltage"
	MetricAngle       = "angle"
)

// Telemetry holds the most recent measurements of a servo. Nil fields
// are unknown, they are excluded from evaluation instead of being
// defaulted to zero.
type Telemetry struct {
	Temperature *float64  `json:"temperature,omitempty"`
	Current     *float64  `json:"current,omitempty"`
	Voltage     *float64  `json:"voltage,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Merge applies a partial update, fields that are unset in the update
// retain their previous value.
func (t Telemetry) Merge(update Telemetry) Telemetry {
	merged := t
	if update.Temperature != nil {
		merged.Temperature = update.Temperature
	}
	if update.Current != nil {
		merged.Current = update.Current
	}
	if update.Voltage != nil {
		merged.Voltage = update.Voltage
	}
	merged.Timestamp = update.Timestamp
	return merged
}

type Thresholds struct {
	TempWarning     float64 `json:"tempWarning"`
	TempCritical    float64 `json:"tempCritical"`
	CurrentWarning  float64 `json:"currentWarning"`
	CurrentCritical float64 `json:"currentCritical"`
	PositionError   float64 `json:"positionError"`
}

// DefaultThresholds returns the stock thresholds, overridable per servo.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempWarning:     60.0,
		TempCritical:    75.0,
		CurrentWarning:  800.0,
		CurrentCritical: 1000.0,
		PositionError:   5.0,
	}
}

// Verdict is the result of evaluating telemetry against thresholds.
type Verdict struct {
	Status     Status   `json:"status"`
	Violations []string `json:"violations,omitempty"`
}

// Evaluate classifies the given telemetry. The highest severity wins:
// any metric at or beyond its critical bound yields CRITICAL, otherwise
// any metric at or beyond its warning bound yields WARNING. Unknown
// metrics never violate.
func Evaluate(telemetry Telemetry, thresholds Thresholds) Verdict {
	var critical []string
	var warning []string

	if telemetry.Temperature != nil {
		if *telemetry.Temperature >= thresholds.TempCritical {
			critical = append(critical, MetricTemperature)
		} else if *telemetry.Temperature >= thresholds.TempWarning {
			warning = append(warning, MetricTemperature)
		}
	}
	if telemetry.Current != nil {
		if *telemetry.Current >= thresholds.CurrentCritical {
			critical = append(critical, MetricCurrent)
		} else if *telemetry.Current >= thresholds.CurrentWarning {
			warning = append(warning, MetricCurrent)
		}
	}

	if len(critical) > 0 {
		return Verdict{Status: StatusCritical, Violations: critical}
	}
	if len(warning) > 0 {
		return Verdict{Status: StatusWarning, Violations: warning}
	}
	return Verdict{Status: StatusHealthy}
}
