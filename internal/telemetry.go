package internal

import (
	"context"
	"time"

	"servo2go/internal/configuration"
	"servo2go/internal/health"
	"servo2go/internal/servos"
	"servo2go/internal/ui"
	"servo2go/internal/util"
)

const defaultTelemetryPollingRate = 1 * time.Second

// TelemetryPoller periodically reads file-based telemetry sources of
// one servo and feeds them into its health evaluation. Metrics without
// a configured source stay unknown and may still arrive via the API.
type TelemetryPoller interface {
	Run(ctx context.Context) error
}

type telemetryPoller struct {
	servo       *servos.Servo
	config      configuration.TelemetryConfig
	pollingRate time.Duration
}

func NewTelemetryPoller(servo *servos.Servo, config configuration.TelemetryConfig) TelemetryPoller {
	pollingRate := config.PollingRate
	if pollingRate <= 0 {
		pollingRate = defaultTelemetryPollingRate
	}
	return telemetryPoller{
		servo:       servo,
		config:      config,
		pollingRate: pollingRate,
	}
}

func (t telemetryPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.pollingRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.poll()
		}
	}
}

// poll reads each configured source once. A failing source logs and is
// skipped, the remaining metrics still update.
func (t telemetryPoller) poll() {
	update := health.Telemetry{Timestamp: time.Now()}
	read := false

	if t.config.TemperatureFile != "" {
		if value, err := util.ReadFloatFromFile(t.config.TemperatureFile); err != nil {
			ui.Warning("Servo %s: error reading temperature: %v", t.servo.GetId(), err)
		} else {
			update.Temperature = &value
			read = true
		}
	}
	if t.config.CurrentFile != "" {
		if value, err := util.ReadFloatFromFile(t.config.CurrentFile); err != nil {
			ui.Warning("Servo %s: error reading current: %v", t.servo.GetId(), err)
		} else {
			update.Current = &value
			read = true
		}
	}
	if t.config.VoltageFile != "" {
		if value, err := util.ReadFloatFromFile(t.config.VoltageFile); err != nil {
			ui.Warning("Servo %s: error reading voltage: %v", t.servo.GetId(), err)
		} else {
			update.Voltage = &value
			read = true
		}
	}

	if read {
		t.servo.UpdateHealthMetrics(update)
	}
}
