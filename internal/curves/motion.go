package curves

import (
	"fmt"
	"time"

	"servo2go/internal/util"
)

const (
	CurveLinear    = "linear"
	CurveEaseIn    = "ease_in"
	CurveEaseOut   = "ease_out"
	CurveEaseInOut = "ease_in_out"
)

// Curve is the progress-shaping function used when interpolating a
// movement. All curves map [0..1] -> [0..1].
type Curve string

func NewCurve(name string) (Curve, error) {
	switch name {
	case CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut:
		return Curve(name), nil
	case "":
		return CurveLinear, nil
	}
	return "", fmt.Errorf("no matching curve type: %s", name)
}

// Shape evaluates the curve function at progress p.
// ease_in_out is a piecewise quadratic, continuous at p = 0.5.
func (c Curve) Shape(p float64) float64 {
	switch c {
	case CurveEaseIn:
		return p * p
	case CurveEaseOut:
		return 1 - (1-p)*(1-p)
	case CurveEaseInOut:
		if p < 0.5 {
			return 2 * p * p
		}
		return 1 - 2*(1-p)*(1-p)
	default:
		return p
	}
}

// Position returns the interpolated angle at elapsed time since motion
// start. A duration <= 0 is an instantaneous jump to the target.
// At the end of the motion the result is exactly the target angle,
// the curve function is never allowed to leave a rounding residue there.
func Position(start float64, target float64, duration time.Duration, curve Curve, elapsed time.Duration) float64 {
	if duration <= 0 {
		return target
	}
	progress := util.Coerce(elapsed.Seconds()/duration.Seconds(), 0, 1)
	if progress >= 1 {
		return target
	}
	return start + (target-start)*curve.Shape(progress)
}
