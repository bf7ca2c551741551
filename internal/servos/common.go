package servos

import (
	"errors"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"servo2go/internal/calibration"
	"servo2go/internal/curves"
	"servo2go/internal/health"
)

const (
	// MovementHistorySize caps the per-servo movement record buffer
	MovementHistorySize = 100
	// EventLogSize caps the per-servo error and warning log buffers
	EventLogSize = 100
)

var (
	// ErrAngleOutOfRange indicates a target outside the configured
	// motion limits. Targets are rejected, never silently clamped,
	// clamping would corrupt calibration feedback loops.
	ErrAngleOutOfRange = errors.New("angle out of range")
	// ErrInvalidSpeed indicates a movement speed <= 0
	ErrInvalidSpeed = errors.New("invalid speed")
)

var (
	ServoMap = cmap.New[*Servo]()
)

func GetServo(id string) (*Servo, bool) {
	return ServoMap.Get(id)
}

// MoveCommand describes one movement request. At most one of Duration
// and Speed may be set; with neither, the servo default applies.
type MoveCommand struct {
	TargetAngle float64        `json:"targetAngle"`
	Duration    *time.Duration `json:"duration,omitempty"`
	// Speed in degrees per second
	Speed    *float64     `json:"speed,omitempty"`
	Curve    curves.Curve `json:"curve,omitempty"`
	Blocking bool         `json:"blocking"`
}

// MotionState is the live movement state of a servo. Angles are in
// logical (pre-calibration) degrees.
type MotionState struct {
	CurrentAngle float64       `json:"currentAngle"`
	TargetAngle  float64       `json:"targetAngle"`
	Moving       bool          `json:"moving"`
	StartedAt    time.Time     `json:"startedAt"`
	Duration     time.Duration `json:"duration"`
}

type MovementRecord struct {
	From      float64       `json:"from"`
	To        float64       `json:"to"`
	Distance  float64       `json:"distance"`
	Duration  time.Duration `json:"duration"`
	Curve     curves.Curve  `json:"curve"`
	Timestamp time.Time     `json:"timestamp"`
	// Superseded marks a motion that was cancelled by a newer command
	// before completion. To is the last written angle in that case.
	Superseded bool `json:"superseded,omitempty"`
}

type LogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Level     health.Status `json:"level"`
	Message   string        `json:"message"`
}

// Counters accumulate monotonically, except on an explicit reset.
type Counters struct {
	TotalMovements   int64     `json:"totalMovements"`
	TotalDistanceDeg float64   `json:"totalDistanceDeg"`
	ErrorCount       int64     `json:"errorCount"`
	WarningCount     int64     `json:"warningCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ServoInfo struct {
	Name     string  `json:"name"`
	Channel  int     `json:"channel"`
	MinAngle float64 `json:"minAngle"`
	MaxAngle float64 `json:"maxAngle"`
}

// HealthStatus is a coherent value snapshot of one servo, safe to read
// while the servo keeps moving.
type HealthStatus struct {
	Info         ServoInfo         `json:"info"`
	Motion       MotionState       `json:"motion"`
	Telemetry    health.Telemetry  `json:"telemetry"`
	Verdict      health.Verdict    `json:"verdict"`
	Counters     Counters          `json:"counters"`
	Uptime       time.Duration     `json:"uptime"`
	LastMovement *MovementRecord   `json:"lastMovement,omitempty"`
	Thresholds   health.Thresholds `json:"thresholds"`
}

type MovementStats struct {
	TotalMovements   int64           `json:"totalMovements"`
	TotalDistanceDeg float64         `json:"totalDistanceDeg"`
	AverageSpeed     float64         `json:"averageSpeed"`
	LastMovement     *MovementRecord `json:"lastMovement,omitempty"`
	Uptime           time.Duration   `json:"uptime"`
}

// ExportSnapshot is the external data export shape of one servo.
type ExportSnapshot struct {
	ServoInfo       ServoInfo               `json:"servo_info"`
	HealthStatus    HealthStatus            `json:"health_status"`
	Calibration     calibration.Calibration `json:"calibration"`
	MovementHistory []MovementRecord        `json:"movement_history"`
	Counters        Counters                `json:"counters"`
	Errors          []LogEntry              `json:"errors"`
	Warnings        []LogEntry              `json:"warnings"`
	ExportedAt      time.Time               `json:"exported_at"`
}
