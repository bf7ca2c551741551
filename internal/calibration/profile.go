package calibration

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"servo2go/internal/util"
)

// ServoProfile is the persisted calibration of a single servo.
type ServoProfile struct {
	Offset       float64   `json:"offset" mapstructure:"offset"`
	Scale        float64   `json:"scale" mapstructure:"scale"`
	Trim         float64   `json:"trim" mapstructure:"trim"`
	MinAngle     float64   `json:"min_angle" mapstructure:"min_angle"`
	MaxAngle     float64   `json:"max_angle" mapstructure:"max_angle"`
	CalibratedAt time.Time `json:"calibrated_at" mapstructure:"calibrated_at"`
}

// Profile is a named set of servo calibrations, the on-disk exchange
// format for persisted calibration data.
type Profile struct {
	ProfileName string                  `json:"profile_name" mapstructure:"profile_name"`
	CreatedAt   time.Time               `json:"created_at" mapstructure:"created_at"`
	ServoCount  int                     `json:"servo_count" mapstructure:"servo_count"`
	Servos      map[string]ServoProfile `json:"servos" mapstructure:"servos"`
}

func NewProfile(name string) *Profile {
	return &Profile{
		ProfileName: name,
		CreatedAt:   time.Now(),
		Servos:      map[string]ServoProfile{},
	}
}

func (p *Profile) Set(servoName string, servoProfile ServoProfile) {
	p.Servos[servoName] = servoProfile
	p.ServoCount = len(p.Servos)
}

func (p *Profile) Get(servoName string) (ServoProfile, bool) {
	servoProfile, ok := p.Servos[servoName]
	return servoProfile, ok
}

// Calibration converts a persisted servo profile into the runtime
// calibration parameters.
func (sp ServoProfile) Calibration() Calibration {
	return Calibration{
		Offset:       sp.Offset,
		Scale:        sp.Scale,
		Trim:         sp.Trim,
		CalibratedAt: sp.CalibratedAt,
	}
}

func (p *Profile) Validate() error {
	if p.ProfileName == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	for name, servoProfile := range p.Servos {
		if err := servoProfile.Calibration().Validate(); err != nil {
			return fmt.Errorf("servo %s: %w", name, err)
		}
		if servoProfile.MinAngle >= servoProfile.MaxAngle {
			return fmt.Errorf("servo %s: min angle %f must be below max angle %f",
				name, servoProfile.MinAngle, servoProfile.MaxAngle)
		}
	}
	return nil
}

// DecodeProfile decodes a profile from a generic map, as produced by a
// JSON import. Unknown keys are rejected instead of silently dropped.
func DecodeProfile(raw map[string]interface{}) (*Profile, error) {
	var profile Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &profile,
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid calibration profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UnmarshalProfile decodes a profile from raw JSON via the strict
// map based decoder.
func UnmarshalProfile(data []byte) (*Profile, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return DecodeProfile(raw)
}

// Export writes the profile as indented JSON to the given path,
// replacing the file atomically.
func (p *Profile) Export(path string) error {
	return util.WriteJsonFileAtomic(p, path)
}

// Measurement is a single auto-calibration test point.
type Measurement struct {
	Target float64 `json:"target"`
	Actual float64 `json:"actual"`
}

// EstimateOffset derives an offset correction from a series of
// test-point measurements. The returned offset compensates the average
// positioning error.
func EstimateOffset(measurements []Measurement) float64 {
	if len(measurements) == 0 {
		return 0
	}
	errorSum := 0.0
	for _, m := range measurements {
		errorSum += m.Actual - m.Target
	}
	return -(errorSum / float64(len(measurements)))
}
