package configuration

type ThresholdsConfig struct {
	TempWarning     float64 `json:"tempWarning"`
	TempCritical    float64 `json:"tempCritical"`
	CurrentWarning  float64 `json:"currentWarning"`
	CurrentCritical float64 `json:"currentCritical"`
	PositionError   float64 `json:"positionError"`
}
