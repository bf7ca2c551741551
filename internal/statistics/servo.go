package statistics

import (
	"github.com/prometheus/client_golang/prometheus"

	"servo2go/internal/servos"
)

const servoSubsystem = "servo"

type ServoCollector struct {
	servos []*servos.Servo

	angle       *prometheus.Desc
	targetAngle *prometheus.Desc
	moving      *prometheus.Desc
	temperature *prometheus.Desc
	current     *prometheus.Desc
	voltage     *prometheus.Desc
	movements   *prometheus.Desc
	distance    *prometheus.Desc
	errors      *prometheus.Desc
	warnings    *prometheus.Desc
}

func NewServoCollector(servos []*servos.Servo) *ServoCollector {
	return &ServoCollector{
		servos: servos,
		angle: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "angle"),
			"Current logical angle of the servo in degrees",
			[]string{"id"}, nil,
		),
		targetAngle: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "target_angle"),
			"Target angle of the current or last movement in degrees",
			[]string{"id"}, nil,
		),
		moving: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "moving"),
			"Whether the servo currently executes a movement",
			[]string{"id"}, nil,
		),
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "temperature"),
			"Last reported temperature of the servo in °C",
			[]string{"id"}, nil,
		),
		current: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "current"),
			"Last reported current draw of the servo in mA",
			[]string{"id"}, nil,
		),
		voltage: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "voltage"),
			"Last reported supply voltage of the servo in V",
			[]string{"id"}, nil,
		),
		movements: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "movements_total"),
			"Counter for completed movements of the servo",
			[]string{"id"}, nil,
		),
		distance: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "distance_degrees_total"),
			"Counter for the total travelled distance of the servo in degrees",
			[]string{"id"}, nil,
		),
		errors: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "errors_total"),
			"Counter for execution faults and critical transitions of the servo",
			[]string{"id"}, nil,
		),
		warnings: prometheus.NewDesc(prometheus.BuildFQName(namespace, servoSubsystem, "warnings_total"),
			"Counter for warning transitions of the servo",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ServoCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.angle
	ch <- collector.targetAngle
	ch <- collector.moving
	ch <- collector.temperature
	ch <- collector.current
	ch <- collector.voltage
	ch <- collector.movements
	ch <- collector.distance
	ch <- collector.errors
	ch <- collector.warnings
}

// Collect implements required collect function for all prometheus collectors
func (collector *ServoCollector) Collect(ch chan<- prometheus.Metric) {
	for _, servo := range collector.servos {
		servoId := servo.GetId()
		status := servo.GetHealthStatus()

		ch <- prometheus.MustNewConstMetric(collector.angle, prometheus.GaugeValue, status.Motion.CurrentAngle, servoId)
		ch <- prometheus.MustNewConstMetric(collector.targetAngle, prometheus.GaugeValue, status.Motion.TargetAngle, servoId)
		moving := 0.0
		if status.Motion.Moving {
			moving = 1.0
		}
		ch <- prometheus.MustNewConstMetric(collector.moving, prometheus.GaugeValue, moving, servoId)

		if status.Telemetry.Temperature != nil {
			ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, *status.Telemetry.Temperature, servoId)
		}
		if status.Telemetry.Current != nil {
			ch <- prometheus.MustNewConstMetric(collector.current, prometheus.GaugeValue, *status.Telemetry.Current, servoId)
		}
		if status.Telemetry.Voltage != nil {
			ch <- prometheus.MustNewConstMetric(collector.voltage, prometheus.GaugeValue, *status.Telemetry.Voltage, servoId)
		}

		ch <- prometheus.MustNewConstMetric(collector.movements, prometheus.CounterValue, float64(status.Counters.TotalMovements), servoId)
		ch <- prometheus.MustNewConstMetric(collector.distance, prometheus.CounterValue, status.Counters.TotalDistanceDeg, servoId)
		ch <- prometheus.MustNewConstMetric(collector.errors, prometheus.CounterValue, float64(status.Counters.ErrorCount), servoId)
		ch <- prometheus.MustNewConstMetric(collector.warnings, prometheus.CounterValue, float64(status.Counters.WarningCount), servoId)
	}
}
