package monitor

import (
	"fmt"
	"time"

	"github.com/qdm12/reprint"

	"servo2go/internal/health"
	"servo2go/internal/servos"
	"servo2go/internal/util"
)

// DashboardSnapshot is the full supervision state at the time of the
// last sweep, the backing data of the dashboard views.
type DashboardSnapshot struct {
	Timestamp  time.Time                      `json:"timestamp"`
	Running    bool                           `json:"running"`
	Servos     map[string]servos.HealthStatus `json:"servos"`
	Alerts     []Alert                        `json:"alerts"`
	Statistics Statistics                     `json:"statistics"`
}

// ReportEntry is the per-servo line of a health report.
type ReportEntry struct {
	Temperature *float64      `json:"temperature"`
	Current     *float64      `json:"current"`
	Status      health.Status `json:"status"`
	Movements   int64         `json:"movements"`
}

// Report is the compact periodic health report shape.
type Report struct {
	Timestamp time.Time              `json:"timestamp"`
	Servos    map[string]ReportEntry `json:"servos"`
}

// Dashboard returns a deep copy of the last sweep state. Mutating the
// result never affects the monitor.
func (m *Monitor) Dashboard() DashboardSnapshot {
	m.mu.Lock()
	lastSweep := m.lastSweep
	lastSweepAt := m.stats.LastSweepAt
	stats := m.stats
	running := m.running
	m.mu.Unlock()

	copied := map[string]servos.HealthStatus{}
	if err := reprint.FromTo(&lastSweep, &copied); err != nil {
		// the snapshot only holds plain values, this cannot fail
		copied = lastSweep
	}

	return DashboardSnapshot{
		Timestamp:  lastSweepAt,
		Running:    running,
		Servos:     copied,
		Alerts:     m.alerts.Snapshot(),
		Statistics: stats,
	}
}

// GenerateReport condenses the last sweep into the health report shape.
func (m *Monitor) GenerateReport() Report {
	m.mu.Lock()
	lastSweep := m.lastSweep
	m.mu.Unlock()

	entries := map[string]ReportEntry{}
	for id, status := range lastSweep {
		entries[id] = ReportEntry{
			Temperature: status.Telemetry.Temperature,
			Current:     status.Telemetry.Current,
			Status:      status.Verdict.Status,
			Movements:   status.Counters.TotalMovements,
		}
	}
	return Report{
		Timestamp: time.Now(),
		Servos:    entries,
	}
}

// ExportReport writes the current health report as JSON, atomically.
func (m *Monitor) ExportReport(path string) error {
	return util.WriteJsonFileAtomic(m.GenerateReport(), path)
}

// Trends returns the recorded samples of one metric of one servo,
// oldest first, limited to the given duration. A zero duration returns
// the whole buffer.
func (m *Monitor) Trends(id string, metric string, duration time.Duration) ([]TrendSample, error) {
	reg, ok := m.registrations.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}

	m.mu.Lock()
	buffer, ok := reg.trends[metric]
	m.mu.Unlock()
	if !ok {
		return []TrendSample{}, nil
	}

	samples := buffer.Snapshot()
	if duration <= 0 {
		return samples, nil
	}

	cutoff := time.Now().Add(-duration)
	for i, sample := range samples {
		if sample.Timestamp.After(cutoff) {
			return samples[i:], nil
		}
	}
	return []TrendSample{}, nil
}
