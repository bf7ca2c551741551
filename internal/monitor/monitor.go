package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"servo2go/internal/configuration"
	"servo2go/internal/health"
	"servo2go/internal/servos"
	"servo2go/internal/ui"
	"servo2go/internal/util"
)

var (
	// ErrDuplicateRegistration indicates that a servo id is already
	// supervised by this monitor
	ErrDuplicateRegistration = errors.New("duplicate registration")
	// ErrNotRegistered indicates a servo id unknown to this monitor
	ErrNotRegistered = errors.New("servo not registered")
)

// Unit is the supervised surface of a servo. The monitor only reads,
// it never commands motion.
type Unit interface {
	GetId() string
	GetHealthStatus() servos.HealthStatus
}

// Alert records one upward health transition of a supervised servo.
// Downward transitions (recovery) are logged but never alerted on.
type Alert struct {
	Id         string        `json:"id"`
	Servo      string        `json:"servo"`
	From       health.Status `json:"from"`
	To         health.Status `json:"to"`
	Violations []string      `json:"violations,omitempty"`
	Message    string        `json:"message"`
	Timestamp  time.Time     `json:"timestamp"`
}

// TrendSample is one timestamped metric observation.
type TrendSample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Statistics accumulate over the lifetime of the monitor, across
// start/stop cycles, until explicitly reset.
type Statistics struct {
	TotalSweeps     int64     `json:"totalSweeps"`
	TotalAlerts     int64     `json:"totalAlerts"`
	WarningAlerts   int64     `json:"warningAlerts"`
	CriticalAlerts  int64     `json:"criticalAlerts"`
	ErrorAlerts     int64     `json:"errorAlerts"`
	MonitoringSince time.Time `json:"monitoringSince"`
	LastSweepAt     time.Time `json:"lastSweepAt"`
}

// registration is the per-servo supervision state. Thresholds may be
// overridden per registration without touching the servo itself.
type registration struct {
	unit       Unit
	thresholds *health.Thresholds
	lastStatus health.Status
	trends     map[string]*util.History[TrendSample]

	registeredAt time.Time
}

// Monitor periodically sweeps all registered servos, records metric
// trends and raises alerts on upward health transitions. One sweep
// reads every servo exactly once; a sweep is atomic with respect to
// dashboard and report snapshots.
type Monitor struct {
	mu sync.Mutex

	config        configuration.MonitorConfig
	registrations cmap.ConcurrentMap[string, *registration]

	alerts    *util.History[Alert]
	lastSweep map[string]servos.HealthStatus
	stats     Statistics

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewMonitor(config configuration.MonitorConfig) *Monitor {
	if config.UpdateInterval <= 0 {
		config.UpdateInterval = 1 * time.Second
	}
	if config.TrendBufferSize <= 0 {
		config.TrendBufferSize = 1000
	}
	if config.AlertBufferSize <= 0 {
		config.AlertBufferSize = 100
	}
	return &Monitor{
		config:        config,
		registrations: cmap.New[*registration](),
		alerts:        util.NewHistory[Alert](config.AlertBufferSize),
		lastSweep:     map[string]servos.HealthStatus{},
		stats:         Statistics{MonitoringSince: time.Now()},
	}
}

// Register puts a servo under supervision. A nil thresholds override
// means the servo's own verdict is taken as is.
func (m *Monitor) Register(unit Unit, thresholds *health.Thresholds) error {
	id := unit.GetId()
	reg := &registration{
		unit:         unit,
		thresholds:   thresholds,
		lastStatus:   health.StatusHealthy,
		trends:       map[string]*util.History[TrendSample]{},
		registeredAt: time.Now(),
	}
	if !m.registrations.SetIfAbsent(id, reg) {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, id)
	}
	ui.Debug("Monitor: registered servo %s", id)
	return nil
}

// Unregister removes a servo from supervision, dropping its trend
// buffers. Already-raised alerts are kept.
func (m *Monitor) Unregister(id string) error {
	if _, ok := m.registrations.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	m.registrations.Remove(id)

	m.mu.Lock()
	delete(m.lastSweep, id)
	m.mu.Unlock()

	ui.Debug("Monitor: unregistered servo %s", id)
	return nil
}

func (m *Monitor) IsRegistered(id string) bool {
	return m.registrations.Has(id)
}

func (m *Monitor) RegisteredIds() []string {
	return m.registrations.Keys()
}

// Start launches the periodic sweep loop. Starting a running monitor
// is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.running = true
	m.cancel = cancel
	m.done = done
	m.mu.Unlock()

	ui.Info("Starting health monitor, sweeping every %v", m.config.UpdateInterval)

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.config.UpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit. Stopping a
// stopped monitor is a no-op. Registrations, trends, alerts and
// statistics survive a stop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.running = false
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	cancel()
	<-done
	ui.Info("Health monitor stopped")
}

func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Sweep reads every registered servo once, appends trend samples and
// raises alerts on upward transitions. It can be invoked directly in
// addition to the periodic loop.
func (m *Monitor) Sweep() {
	snapshot := map[string]servos.HealthStatus{}

	for id, reg := range m.registrations.Items() {
		status := reg.unit.GetHealthStatus()
		verdict := status.Verdict
		if reg.thresholds != nil && verdict.Status != health.StatusError {
			verdict = health.Evaluate(status.Telemetry, *reg.thresholds)
			status.Verdict = verdict
		}
		snapshot[id] = status

		m.mu.Lock()
		m.appendTrends(reg, status)
		m.recordTransition(reg, id, verdict)
		m.mu.Unlock()
	}

	m.mu.Lock()
	m.lastSweep = snapshot
	m.stats.TotalSweeps++
	m.stats.LastSweepAt = time.Now()
	m.mu.Unlock()
}

func (m *Monitor) appendTrends(reg *registration, status servos.HealthStatus) {
	now := time.Now()
	if status.Telemetry.Temperature != nil {
		m.trendBuffer(reg, health.MetricTemperature).Append(TrendSample{Value: *status.Telemetry.Temperature, Timestamp: now})
	}
	if status.Telemetry.Current != nil {
		m.trendBuffer(reg, health.MetricCurrent).Append(TrendSample{Value: *status.Telemetry.Current, Timestamp: now})
	}
	if status.Telemetry.Voltage != nil {
		m.trendBuffer(reg, health.MetricVoltage).Append(TrendSample{Value: *status.Telemetry.Voltage, Timestamp: now})
	}
	m.trendBuffer(reg, health.MetricAngle).Append(TrendSample{Value: status.Motion.CurrentAngle, Timestamp: now})
}

func (m *Monitor) trendBuffer(reg *registration, metric string) *util.History[TrendSample] {
	buffer, ok := reg.trends[metric]
	if !ok {
		buffer = util.NewHistory[TrendSample](m.config.TrendBufferSize)
		reg.trends[metric] = buffer
	}
	return buffer
}

func (m *Monitor) recordTransition(reg *registration, id string, verdict health.Verdict) {
	previous := reg.lastStatus
	if verdict.Status == previous {
		return
	}
	reg.lastStatus = verdict.Status

	if verdict.Status.Severity() <= previous.Severity() {
		ui.Info("Servo %s recovered: %s -> %s", id, previous, verdict.Status)
		return
	}

	alert := Alert{
		Id:         uuid.New().String(),
		Servo:      id,
		From:       previous,
		To:         verdict.Status,
		Violations: verdict.Violations,
		Message:    fmt.Sprintf("servo %s degraded from %s to %s (%s)", id, previous, verdict.Status, strings.Join(verdict.Violations, ", ")),
		Timestamp:  time.Now(),
	}
	m.alerts.Append(alert)
	m.stats.TotalAlerts++
	switch verdict.Status {
	case health.StatusWarning:
		m.stats.WarningAlerts++
		ui.Warning("Monitor: %s", alert.Message)
	case health.StatusCritical:
		m.stats.CriticalAlerts++
		ui.Error("Monitor: %s", alert.Message)
	case health.StatusError:
		m.stats.ErrorAlerts++
		ui.Error("Monitor: %s", alert.Message)
	}
}

// Alerts returns the alert log, oldest first.
func (m *Monitor) Alerts() []Alert {
	return m.alerts.Snapshot()
}

// ClearAlerts drops all recorded alerts, statistics are untouched.
func (m *Monitor) ClearAlerts() {
	m.alerts.Clear()
	ui.Debug("Monitor: alerts cleared")
}

func (m *Monitor) GetStatistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResetStatistics zeroes the counters and restarts the monitoring
// clock. The alert log is kept, use ClearAlerts for that.
func (m *Monitor) ResetStatistics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = Statistics{MonitoringSince: time.Now()}
	ui.Debug("Monitor: statistics reset")
}
