package configuration

import "time"

type MonitorConfig struct {
	// UpdateInterval is the cadence of the background health sweep
	UpdateInterval time.Duration `json:"updateInterval"`
	// TrendBufferSize caps the per-metric trend sample buffers
	TrendBufferSize int `json:"trendBufferSize"`
	// AlertBufferSize caps the monitor-wide alert log
	AlertBufferSize int `json:"alertBufferSize"`
}
