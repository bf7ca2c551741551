package calibration

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCalibration indicates calibration parameters that can not
// be applied, most notably a non-positive scale factor.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Calibration maps a logical angle (as commanded by the caller) to the
// physical angle written to the driver. It is replaced wholesale on
// recalibration, never mutated field by field.
type Calibration struct {
	// Offset is a constant angle offset in degrees
	Offset float64 `json:"offset"`
	// Scale stretches or compresses the angle range, must be > 0
	Scale float64 `json:"scale"`
	// Trim is a fine-tuning adjustment in degrees
	Trim float64 `json:"trim"`

	CalibratedAt time.Time `json:"calibratedAt"`
}

// Default returns the identity calibration.
func Default() Calibration {
	return Calibration{
		Offset: 0,
		Scale:  1,
		Trim:   0,
	}
}

func (c Calibration) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be > 0, got %f", ErrInvalidCalibration, c.Scale)
	}
	return nil
}

// Apply transforms a logical angle into the physical angle.
// Limits are enforced on the logical angle before this transform,
// so Apply itself never clamps.
func (c Calibration) Apply(logicalAngle float64) float64 {
	return logicalAngle*c.Scale + c.Offset + c.Trim
}

// Inverse transforms a physical angle back into logical space.
// Only valid for calibrations that pass Validate.
func (c Calibration) Inverse(physicalAngle float64) float64 {
	return (physicalAngle - c.Offset - c.Trim) / c.Scale
}
