package servos

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"servo2go/internal/calibration"
	"servo2go/internal/configuration"
	"servo2go/internal/curves"
	"servo2go/internal/health"
)

type mockDriver struct {
	mu        sync.Mutex
	writes    []float64
	channels  []int
	failAfter int // fail every write once this many writes happened, -1 = never
}

func newMockDriver() *mockDriver {
	return &mockDriver{failAfter: -1}
}

func (d *mockDriver) WriteAngle(channel int, physicalAngle float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failAfter >= 0 && len(d.writes) >= d.failAfter {
		return errors.New("write rejected")
	}
	d.writes = append(d.writes, physicalAngle)
	d.channels = append(d.channels, channel)
	return nil
}

func (d *mockDriver) lastWrite() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.writes) == 0 {
		return 0, false
	}
	return d.writes[len(d.writes)-1], true
}

func createTestServo(t *testing.T, driver Driver) *Servo {
	config := configuration.ServoConfig{
		ID:       "test_servo",
		Channel:  3,
		MinAngle: 0,
		MaxAngle: 180,
	}
	servo, err := NewServo(config, driver)
	assert.NoError(t, err)
	return servo
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func floatPtr(value float64) *float64 {
	return &value
}

func TestNewServoStartsAtCenter(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN
	status := servo.GetHealthStatus()

	// THEN
	assert.Equal(t, 90.0, status.Motion.CurrentAngle)
	assert.False(t, status.Motion.Moving)
	assert.Equal(t, health.StatusHealthy, status.Verdict.Status)
}

func TestMoveToOutOfRangeFails(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())
	before := servo.GetHealthStatus().Motion

	// WHEN
	err := servo.MoveTo(MoveCommand{TargetAngle: 200})

	// THEN
	assert.ErrorIs(t, err, ErrAngleOutOfRange)
	after := servo.GetHealthStatus().Motion
	assert.Equal(t, before.CurrentAngle, after.CurrentAngle)
	assert.Equal(t, before.TargetAngle, after.TargetAngle)
	assert.False(t, after.Moving)
}

func TestMoveToOutOfRangeLatchesError(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN
	_ = servo.MoveTo(MoveCommand{TargetAngle: -10})

	// THEN
	status := servo.GetHealthStatus()
	assert.Equal(t, health.StatusError, status.Verdict.Status)
	assert.Equal(t, int64(1), status.Counters.ErrorCount)

	// WHEN a subsequent movement succeeds
	err := servo.MoveTo(MoveCommand{TargetAngle: 100, Duration: durationPtr(0), Blocking: true})

	// THEN the error verdict is cleared
	assert.NoError(t, err)
	assert.Equal(t, health.StatusHealthy, servo.GetHealthStatus().Verdict.Status)
}

func TestMoveToBlockingReachesTargetExactly(t *testing.T) {
	// GIVEN
	driver := newMockDriver()
	servo := createTestServo(t, driver)

	// WHEN
	err := servo.MoveTo(MoveCommand{
		TargetAngle: 120,
		Duration:    durationPtr(80 * time.Millisecond),
		Curve:       curves.CurveEaseInOut,
		Blocking:    true,
	})

	// THEN
	assert.NoError(t, err)
	status := servo.GetHealthStatus()
	assert.Equal(t, 120.0, status.Motion.CurrentAngle)
	assert.False(t, status.Motion.Moving)
	assert.Equal(t, int64(1), status.Counters.TotalMovements)
	assert.Equal(t, 30.0, status.Counters.TotalDistanceDeg)

	lastWrite, ok := driver.lastWrite()
	assert.True(t, ok)
	assert.Equal(t, 120.0, lastWrite)
}

func TestMoveToAppliesCalibrationToDriverWrites(t *testing.T) {
	// GIVEN
	driver := newMockDriver()
	servo := createTestServo(t, driver)
	err := servo.SetCalibration(calibration.Calibration{Offset: 5, Scale: 1, Trim: 0.5})
	assert.NoError(t, err)

	// WHEN
	err = servo.MoveTo(MoveCommand{TargetAngle: 100, Duration: durationPtr(0), Blocking: true})

	// THEN
	assert.NoError(t, err)
	lastWrite, ok := driver.lastWrite()
	assert.True(t, ok)
	assert.InDelta(t, 105.5, lastWrite, 1e-9)
	// limits live in logical space, the state stays logical too
	assert.Equal(t, 100.0, servo.GetHealthStatus().Motion.CurrentAngle)
}

func TestMoveToRejectsDurationAndSpeedTogether(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN
	err := servo.MoveTo(MoveCommand{
		TargetAngle: 100,
		Duration:    durationPtr(time.Second),
		Speed:       floatPtr(50),
	})

	// THEN
	assert.Error(t, err)
}

func TestMoveToRejectsNonPositiveSpeed(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN
	err := servo.MoveTo(MoveCommand{TargetAngle: 100, Speed: floatPtr(0)})

	// THEN
	assert.ErrorIs(t, err, ErrInvalidSpeed)
}

func TestMoveToResolvesDurationFromSpeed(t *testing.T) {
	// GIVEN a servo at 90°
	servo := createTestServo(t, newMockDriver())

	// WHEN moving 30° at 300°/s
	err := servo.MoveTo(MoveCommand{TargetAngle: 120, Speed: floatPtr(300), Blocking: true})

	// THEN the resolved duration is distance/speed
	assert.NoError(t, err)
	last, ok := servo.movementHistory.Last()
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, last.Duration)
}

func TestMoveToNonBlockingSupersedesInFlightMotion(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN a slow motion is immediately replaced by a second command
	err := servo.MoveTo(MoveCommand{TargetAngle: 30, Duration: durationPtr(500 * time.Millisecond)})
	assert.NoError(t, err)
	err = servo.MoveTo(MoveCommand{TargetAngle: 150, Duration: durationPtr(100 * time.Millisecond), Blocking: true})

	// THEN the servo ends at the second target, never at the first
	assert.NoError(t, err)
	status := servo.GetHealthStatus()
	assert.Equal(t, 150.0, status.Motion.CurrentAngle)
	assert.False(t, status.Motion.Moving)

	// AND the history holds the superseded marker plus the completed motion
	records := servo.movementHistory.Snapshot()
	assert.Len(t, records, 2)
	assert.True(t, records[0].Superseded)
	assert.False(t, records[1].Superseded)
	assert.Equal(t, 150.0, records[1].To)

	// AND only the completed motion is counted
	assert.Equal(t, int64(1), status.Counters.TotalMovements)
}

func TestMoveToDriverFaultAbortsAtLastWrittenAngle(t *testing.T) {
	// GIVEN a driver that rejects every write after the third one
	driver := newMockDriver()
	driver.failAfter = 3
	servo := createTestServo(t, driver)

	// WHEN
	err := servo.MoveTo(MoveCommand{TargetAngle: 150, Duration: durationPtr(300 * time.Millisecond), Blocking: true})
	assert.NoError(t, err)

	// THEN the motion aborted and the verdict escalated to ERROR
	status := servo.GetHealthStatus()
	assert.False(t, status.Motion.Moving)
	assert.Equal(t, health.StatusError, status.Verdict.Status)
	assert.Equal(t, int64(1), status.Counters.ErrorCount)

	// AND the current angle is the last successfully written one
	lastWrite, ok := driver.lastWrite()
	assert.True(t, ok)
	assert.Equal(t, lastWrite, status.Motion.CurrentAngle)
	assert.NotEqual(t, 150.0, status.Motion.CurrentAngle)
}

func TestUpdateHealthMetricsVerdicts(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN / THEN
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(50)})
	assert.Equal(t, health.StatusHealthy, servo.GetHealthStatus().Verdict.Status)

	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(65)})
	status := servo.GetHealthStatus()
	assert.Equal(t, health.StatusWarning, status.Verdict.Status)
	assert.Equal(t, []string{health.MetricTemperature}, status.Verdict.Violations)

	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(80)})
	status = servo.GetHealthStatus()
	assert.Equal(t, health.StatusCritical, status.Verdict.Status)
	assert.Equal(t, []string{health.MetricTemperature}, status.Verdict.Violations)
}

func TestUpdateHealthMetricsCountsTransitionsOnce(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN the warning state is reported repeatedly
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(65)})
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(66)})
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(67)})

	// THEN only the transition is counted
	assert.Equal(t, int64(1), servo.GetHealthStatus().Counters.WarningCount)
}

func TestUpdateHealthMetricsPartialUpdateKeepsKnownValues(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(45), Current: floatPtr(300)})

	// WHEN only the current is updated
	servo.UpdateHealthMetrics(health.Telemetry{Current: floatPtr(350)})

	// THEN the temperature is retained
	telemetry := servo.GetHealthStatus().Telemetry
	assert.Equal(t, 45.0, *telemetry.Temperature)
	assert.Equal(t, 350.0, *telemetry.Current)
}

func TestResetHealthCountersKeepsMovementHistory(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())
	_ = servo.MoveTo(MoveCommand{TargetAngle: 100, Duration: durationPtr(0), Blocking: true})
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(80)})

	// WHEN
	servo.ResetHealthCounters()

	// THEN
	status := servo.GetHealthStatus()
	assert.Equal(t, int64(0), status.Counters.ErrorCount)
	assert.Equal(t, int64(0), status.Counters.TotalMovements)
	assert.Equal(t, 0, servo.errorLog.Size())
	assert.Equal(t, 1, servo.movementHistory.Size())
	assert.Equal(t, 1.0, servo.GetCalibration().Scale)
}

func TestMovementHistoryIsBounded(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())

	// WHEN recording more movements than the history holds
	for i := 0; i < MovementHistorySize+20; i++ {
		target := 10.0 + float64(i%160)
		err := servo.MoveTo(MoveCommand{TargetAngle: target, Duration: durationPtr(0), Blocking: true})
		assert.NoError(t, err)
	}

	// THEN
	assert.Equal(t, MovementHistorySize, servo.movementHistory.Size())
}

func TestExportDataShape(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())
	_ = servo.MoveTo(MoveCommand{TargetAngle: 45, Duration: durationPtr(0), Blocking: true})
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(45.5), Current: floatPtr(350), Voltage: floatPtr(5)})

	// WHEN
	snapshot := servo.ExportData()

	// THEN
	assert.Equal(t, "test_servo", snapshot.ServoInfo.Name)
	assert.Equal(t, 3, snapshot.ServoInfo.Channel)
	assert.Len(t, snapshot.MovementHistory, 1)
	assert.Equal(t, int64(1), snapshot.Counters.TotalMovements)
	assert.Equal(t, 45.5, *snapshot.HealthStatus.Telemetry.Temperature)
	assert.Empty(t, snapshot.Errors)
	assert.False(t, snapshot.ExportedAt.IsZero())
}

func TestGetMovementStatsAverageSpeed(t *testing.T) {
	// GIVEN a servo at 90°
	servo := createTestServo(t, newMockDriver())
	err := servo.MoveTo(MoveCommand{TargetAngle: 120, Duration: durationPtr(100 * time.Millisecond), Blocking: true})
	assert.NoError(t, err)

	// WHEN
	stats := servo.GetMovementStats()

	// THEN 30° over 0.1s
	assert.Equal(t, int64(1), stats.TotalMovements)
	assert.InDelta(t, 300.0, stats.AverageSpeed, 1e-9)
	assert.NotNil(t, stats.LastMovement)
}

func TestSnapshotIsValueCopy(t *testing.T) {
	// GIVEN
	servo := createTestServo(t, newMockDriver())
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(40)})
	snapshot := servo.GetHealthStatus()

	// WHEN telemetry changes after the snapshot was taken
	servo.UpdateHealthMetrics(health.Telemetry{Temperature: floatPtr(99)})

	// THEN the snapshot is unaffected
	assert.Equal(t, 40.0, *snapshot.Telemetry.Temperature)
}
