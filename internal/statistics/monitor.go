package statistics

import (
	"github.com/prometheus/client_golang/prometheus"

	"servo2go/internal/monitor"
)

const monitorSubsystem = "monitor"

type MonitorCollector struct {
	monitor *monitor.Monitor

	sweeps         *prometheus.Desc
	alerts         *prometheus.Desc
	warningAlerts  *prometheus.Desc
	criticalAlerts *prometheus.Desc
	registered     *prometheus.Desc
	running        *prometheus.Desc
}

func NewMonitorCollector(monitor *monitor.Monitor) *MonitorCollector {
	return &MonitorCollector{
		monitor: monitor,
		sweeps: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "sweeps_total"),
			"Counter for completed health sweeps",
			nil, nil,
		),
		alerts: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "alerts_total"),
			"Counter for raised health alerts",
			nil, nil,
		),
		warningAlerts: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "warning_alerts_total"),
			"Counter for raised WARNING alerts",
			nil, nil,
		),
		criticalAlerts: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "critical_alerts_total"),
			"Counter for raised CRITICAL alerts",
			nil, nil,
		),
		registered: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "registered_servos"),
			"Number of servos under supervision",
			nil, nil,
		),
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "running"),
			"Whether the periodic sweep loop is active",
			nil, nil,
		),
	}
}

func (collector *MonitorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.sweeps
	ch <- collector.alerts
	ch <- collector.warningAlerts
	ch <- collector.criticalAlerts
	ch <- collector.registered
	ch <- collector.running
}

// Collect implements required collect function for all prometheus collectors
func (collector *MonitorCollector) Collect(ch chan<- prometheus.Metric) {
	stats := collector.monitor.GetStatistics()

	ch <- prometheus.MustNewConstMetric(collector.sweeps, prometheus.CounterValue, float64(stats.TotalSweeps))
	ch <- prometheus.MustNewConstMetric(collector.alerts, prometheus.CounterValue, float64(stats.TotalAlerts))
	ch <- prometheus.MustNewConstMetric(collector.warningAlerts, prometheus.CounterValue, float64(stats.WarningAlerts))
	ch <- prometheus.MustNewConstMetric(collector.criticalAlerts, prometheus.CounterValue, float64(stats.CriticalAlerts))
	ch <- prometheus.MustNewConstMetric(collector.registered, prometheus.GaugeValue, float64(len(collector.monitor.RegisteredIds())))
	running := 0.0
	if collector.monitor.IsRunning() {
		running = 1.0
	}
	ch <- prometheus.MustNewConstMetric(collector.running, prometheus.GaugeValue, running)
}
