package servos

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"

	"servo2go/internal/calibration"
	"servo2go/internal/configuration"
	"servo2go/internal/curves"
	"servo2go/internal/health"
	"servo2go/internal/ui"
	"servo2go/internal/util"
)

const telemetryWindowSize = 10

// Servo owns the full state of one actuator: motion limits,
// calibration, live motion state, telemetry, counters and bounded
// histories. All state is guarded by a single per-servo mutex so
// snapshot reads are never torn against motion steps or telemetry
// merges. There is no lock spanning multiple servos.
type Servo struct {
	// cmdMu serializes command setup so that task replacement is
	// race free between concurrent MoveTo calls
	cmdMu sync.Mutex
	// mu guards all mutable state below
	mu sync.Mutex

	config configuration.ServoConfig
	driver Driver

	calibration calibration.Calibration
	motion      MotionState
	telemetry   health.Telemetry
	thresholds  health.Thresholds
	counters    Counters

	movementHistory *util.History[MovementRecord]
	errorLog        *util.History[LogEntry]
	warningLog      *util.History[LogEntry]

	tempWindow     *rolling.PointPolicy
	currentWindow  *rolling.PointPolicy
	tempWindowInit bool
	currWindowInit bool

	// lastStatus is the previously recorded telemetry verdict, used
	// to detect upward transitions
	lastStatus health.Status
	// execError latches the ERROR verdict after an execution fault
	// until the next successful movement
	execError bool

	task *motionTask

	stepRate        time.Duration
	defaultDuration time.Duration
}

func NewServo(config configuration.ServoConfig, driver Driver) (*Servo, error) {
	cal := calibration.Default()
	if config.Calibration != nil {
		cal = calibration.Calibration{
			Offset: config.Calibration.Offset,
			Scale:  config.Calibration.Scale,
			Trim:   config.Calibration.Trim,
		}
		if err := cal.Validate(); err != nil {
			return nil, err
		}
	}

	thresholds := resolveThresholds(config)

	stepRate := configuration.CurrentConfig.MotionStepRate
	if stepRate <= 0 {
		stepRate = 20 * time.Millisecond
	}
	defaultDuration := configuration.CurrentConfig.DefaultMoveDuration
	if defaultDuration <= 0 {
		defaultDuration = 1 * time.Second
	}

	center := (config.MinAngle + config.MaxAngle) / 2
	servo := &Servo{
		config:      config,
		driver:      driver,
		calibration: cal,
		motion: MotionState{
			CurrentAngle: center,
			TargetAngle:  center,
		},
		thresholds:      thresholds,
		counters:        Counters{CreatedAt: time.Now()},
		movementHistory: util.NewHistory[MovementRecord](MovementHistorySize),
		errorLog:        util.NewHistory[LogEntry](EventLogSize),
		warningLog:      util.NewHistory[LogEntry](EventLogSize),
		tempWindow:      util.CreateRollingWindow(telemetryWindowSize),
		currentWindow:   util.CreateRollingWindow(telemetryWindowSize),
		lastStatus:      health.StatusHealthy,
		stepRate:        stepRate,
		defaultDuration: defaultDuration,
	}
	return servo, nil
}

func resolveThresholds(config configuration.ServoConfig) health.Thresholds {
	var thresholdsConfig configuration.ThresholdsConfig
	if config.Thresholds != nil {
		thresholdsConfig = *config.Thresholds
	} else if configuration.CurrentConfig.DefaultThresholds != (configuration.ThresholdsConfig{}) {
		thresholdsConfig = configuration.CurrentConfig.DefaultThresholds
	} else {
		return health.DefaultThresholds()
	}
	return health.Thresholds{
		TempWarning:     thresholdsConfig.TempWarning,
		TempCritical:    thresholdsConfig.TempCritical,
		CurrentWarning:  thresholdsConfig.CurrentWarning,
		CurrentCritical: thresholdsConfig.CurrentCritical,
		PositionError:   thresholdsConfig.PositionError,
	}
}

func (s *Servo) GetId() string {
	return s.config.ID
}

func (s *Servo) GetChannel() int {
	return s.config.Channel
}

func (s *Servo) GetConfig() configuration.ServoConfig {
	return s.config
}

// MoveTo validates and executes a movement command. Non-blocking
// commands return once the motion task is scheduled; a newer command
// cancels and replaces an in-flight motion, which is expected behavior
// and not an error.
func (s *Servo) MoveTo(command MoveCommand) error {
	s.cmdMu.Lock()

	if command.TargetAngle < s.config.MinAngle || command.TargetAngle > s.config.MaxAngle {
		err := fmt.Errorf("%w: %f° is outside [%f°, %f°] of servo %s",
			ErrAngleOutOfRange, command.TargetAngle, s.config.MinAngle, s.config.MaxAngle, s.config.ID)
		s.recordExecError(err.Error())
		s.cmdMu.Unlock()
		return err
	}

	curve, err := curveOf(command)
	if err != nil {
		s.recordExecError(err.Error())
		s.cmdMu.Unlock()
		return err
	}

	s.mu.Lock()
	currentAngle := s.motion.CurrentAngle
	s.mu.Unlock()

	duration, err := s.resolveDuration(command, currentAngle)
	if err != nil {
		s.recordExecError(err.Error())
		s.cmdMu.Unlock()
		return err
	}

	// supersede any in-flight motion before starting the next one,
	// there is exactly one motion task per servo at any time
	s.mu.Lock()
	previous := s.task
	s.task = nil
	s.mu.Unlock()
	if previous != nil {
		previous.cancel()
		<-previous.done
	}

	s.mu.Lock()
	start := s.motion.CurrentAngle
	task := newMotionTask()
	s.task = task
	s.motion = MotionState{
		CurrentAngle: start,
		TargetAngle:  command.TargetAngle,
		Moving:       true,
		StartedAt:    time.Now(),
		Duration:     duration,
	}
	s.mu.Unlock()

	go s.runMotion(task, start, command.TargetAngle, duration, curve)
	s.cmdMu.Unlock()

	if command.Blocking {
		<-task.done
	}
	return nil
}

func curveOf(command MoveCommand) (curves.Curve, error) {
	return curves.NewCurve(string(command.Curve))
}

// resolveDuration determines the movement duration from the command.
// Duration and speed are mutually exclusive; with neither, the servo's
// default speed (if configured) or the global default duration applies.
func (s *Servo) resolveDuration(command MoveCommand, currentAngle float64) (time.Duration, error) {
	distance := command.TargetAngle - currentAngle
	if distance < 0 {
		distance = -distance
	}

	if command.Duration != nil && command.Speed != nil {
		return 0, fmt.Errorf("servo %s: duration and speed are mutually exclusive", s.config.ID)
	}
	if command.Duration != nil {
		return *command.Duration, nil
	}
	if command.Speed != nil {
		if *command.Speed <= 0 {
			return 0, fmt.Errorf("%w: %f must be > 0", ErrInvalidSpeed, *command.Speed)
		}
		return time.Duration(distance / *command.Speed * float64(time.Second)), nil
	}
	if s.config.DefaultSpeed > 0 {
		return time.Duration(distance / s.config.DefaultSpeed * float64(time.Second)), nil
	}
	return s.defaultDuration, nil
}

// StopMotion cancels an in-flight motion, if any. The servo stays at
// the last written angle.
func (s *Servo) StopMotion() {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	task := s.task
	s.task = nil
	s.mu.Unlock()

	if task != nil {
		task.cancel()
		<-task.done
	}
}

// UpdateHealthMetrics merges a partial telemetry update and re-derives
// the health verdict. Unset fields never overwrite known values.
func (s *Servo) UpdateHealthMetrics(update health.Telemetry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}
	s.telemetry = s.telemetry.Merge(update)

	if s.telemetry.Temperature != nil {
		if !s.tempWindowInit {
			util.FillWindow(s.tempWindow, telemetryWindowSize, *s.telemetry.Temperature)
			s.tempWindowInit = true
		} else {
			s.tempWindow.Append(*s.telemetry.Temperature)
		}
	}
	if s.telemetry.Current != nil {
		if !s.currWindowInit {
			util.FillWindow(s.currentWindow, telemetryWindowSize, *s.telemetry.Current)
			s.currWindowInit = true
		} else {
			s.currentWindow.Append(*s.telemetry.Current)
		}
	}

	verdict := health.Evaluate(s.telemetry, s.thresholds)
	if verdict.Status != s.lastStatus {
		message := fmt.Sprintf("health degraded to %s: %s", verdict.Status, strings.Join(verdict.Violations, ", "))
		entry := LogEntry{Timestamp: time.Now(), Level: verdict.Status, Message: message}
		switch verdict.Status {
		case health.StatusWarning:
			s.warningLog.Append(entry)
			s.counters.WarningCount++
			ui.Warning("Servo %s: %s", s.config.ID, message)
		case health.StatusCritical:
			s.errorLog.Append(entry)
			s.counters.ErrorCount++
			ui.Error("Servo %s: %s", s.config.ID, message)
		}
		s.lastStatus = verdict.Status
	}
}

// GetHealthStatus returns a coherent value snapshot of this servo.
// An execution fault overrides the telemetry verdict with ERROR until
// the next successful movement.
func (s *Servo) GetHealthStatus() HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthStatusLocked()
}

func (s *Servo) healthStatusLocked() HealthStatus {
	verdict := health.Evaluate(s.telemetry, s.thresholds)
	if s.execError {
		verdict = health.Verdict{Status: health.StatusError}
	}

	status := HealthStatus{
		Info:       s.info(),
		Motion:     s.motion,
		Telemetry:  cloneTelemetry(s.telemetry),
		Verdict:    verdict,
		Counters:   s.counters,
		Uptime:     time.Since(s.counters.CreatedAt),
		Thresholds: s.thresholds,
	}
	if last, ok := s.movementHistory.Last(); ok {
		status.LastMovement = &last
	}
	return status
}

func (s *Servo) info() ServoInfo {
	return ServoInfo{
		Name:     s.config.ID,
		Channel:  s.config.Channel,
		MinAngle: s.config.MinAngle,
		MaxAngle: s.config.MaxAngle,
	}
}

func cloneTelemetry(telemetry health.Telemetry) health.Telemetry {
	clone := health.Telemetry{Timestamp: telemetry.Timestamp}
	if telemetry.Temperature != nil {
		value := *telemetry.Temperature
		clone.Temperature = &value
	}
	if telemetry.Current != nil {
		value := *telemetry.Current
		clone.Current = &value
	}
	if telemetry.Voltage != nil {
		value := *telemetry.Voltage
		clone.Voltage = &value
	}
	return clone
}

func (s *Servo) GetMovementStats() MovementStats {
	s.mu.Lock()
	counters := s.counters
	s.mu.Unlock()

	records := s.movementHistory.Snapshot()
	var speeds []float64
	for _, record := range records {
		if record.Superseded || record.Duration <= 0 {
			continue
		}
		speeds = append(speeds, record.Distance/record.Duration.Seconds())
	}
	averageSpeed := 0.0
	if len(speeds) > 0 {
		averageSpeed = util.Avg(speeds)
	}

	stats := MovementStats{
		TotalMovements:   counters.TotalMovements,
		TotalDistanceDeg: counters.TotalDistanceDeg,
		AverageSpeed:     averageSpeed,
		Uptime:           time.Since(counters.CreatedAt),
	}
	if last, ok := s.movementHistory.Last(); ok {
		stats.LastMovement = &last
	}
	return stats
}

// ExportData assembles the full external snapshot of this servo.
func (s *Servo) ExportData() ExportSnapshot {
	s.mu.Lock()
	status := s.healthStatusLocked()
	cal := s.calibration
	counters := s.counters
	s.mu.Unlock()

	return ExportSnapshot{
		ServoInfo:       status.Info,
		HealthStatus:    status,
		Calibration:     cal,
		MovementHistory: s.movementHistory.Snapshot(),
		Counters:        counters,
		Errors:          s.errorLog.Snapshot(),
		Warnings:        s.warningLog.Snapshot(),
		ExportedAt:      time.Now(),
	}
}

// ExportToFile writes the export snapshot as JSON, atomically.
func (s *Servo) ExportToFile(path string) error {
	return util.WriteJsonFileAtomic(s.ExportData(), path)
}

// ResetHealthCounters zeroes the counters and clears the error and
// warning logs. Movement history and calibration are kept.
func (s *Servo) ResetHealthCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	createdAt := s.counters.CreatedAt
	s.counters = Counters{CreatedAt: createdAt}
	s.errorLog.Clear()
	s.warningLog.Clear()
	ui.Debug("Health counters reset for servo %s", s.config.ID)
}

// SetCalibration replaces the calibration wholesale. Partial mutation
// is not supported.
func (s *Servo) SetCalibration(cal calibration.Calibration) error {
	if err := cal.Validate(); err != nil {
		return err
	}
	if cal.CalibratedAt.IsZero() {
		cal.CalibratedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calibration = cal
	ui.Info("Calibration updated for servo %s", s.config.ID)
	return nil
}

func (s *Servo) GetCalibration() calibration.Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calibration
}

func (s *Servo) GetThresholds() health.Thresholds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thresholds
}

// Profile returns the persisted calibration shape of this servo.
func (s *Servo) Profile() calibration.ServoProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calibration.ServoProfile{
		Offset:       s.calibration.Offset,
		Scale:        s.calibration.Scale,
		Trim:         s.calibration.Trim,
		MinAngle:     s.config.MinAngle,
		MaxAngle:     s.config.MaxAngle,
		CalibratedAt: s.calibration.CalibratedAt,
	}
}

// TemperatureMovingAvg returns the rolling average of recent
// temperature samples, 0 if no telemetry arrived yet.
func (s *Servo) TemperatureMovingAvg() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tempWindowInit {
		return 0
	}
	return util.GetWindowAvg(s.tempWindow)
}

// CurrentMovingAvg returns the rolling average of recent current
// samples, 0 if no telemetry arrived yet.
func (s *Servo) CurrentMovingAvg() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currWindowInit {
		return 0
	}
	return util.GetWindowAvg(s.currentWindow)
}

// recordExecError latches the ERROR verdict and logs the fault.
func (s *Servo) recordExecError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execError = true
	s.counters.ErrorCount++
	s.errorLog.Append(LogEntry{Timestamp: time.Now(), Level: health.StatusError, Message: message})
	ui.Error("Servo %s: %s", s.config.ID, message)
}
