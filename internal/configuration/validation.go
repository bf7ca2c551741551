package configuration

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"servo2go/internal/ui"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.MotionStepRate <= 0 {
		return errors.New("motionStepRate must be > 0")
	}
	if config.DefaultMoveDuration < 0 {
		return errors.New("defaultMoveDuration must be >= 0")
	}
	if err := validateMonitor(&config.Monitor); err != nil {
		return err
	}
	if err := validateThresholds("defaultThresholds", &config.DefaultThresholds); err != nil {
		return err
	}
	return validateServos(config)
}

func validateMonitor(config *MonitorConfig) error {
	if config.UpdateInterval <= 0 {
		return errors.New("monitor update interval must be > 0")
	}
	if config.TrendBufferSize <= 0 {
		return errors.New("monitor trend buffer size must be > 0")
	}
	if config.AlertBufferSize <= 0 {
		return errors.New("monitor alert buffer size must be > 0")
	}
	return nil
}

func validateThresholds(context string, thresholds *ThresholdsConfig) error {
	if thresholds.TempWarning >= thresholds.TempCritical {
		return fmt.Errorf("%s: temp warning threshold must be below the critical one", context)
	}
	if thresholds.CurrentWarning >= thresholds.CurrentCritical {
		return fmt.Errorf("%s: current warning threshold must be below the critical one", context)
	}
	if thresholds.PositionError <= 0 {
		return fmt.Errorf("%s: position error threshold must be > 0", context)
	}
	return nil
}

func validateServos(config *Configuration) error {
	var ids []string
	var channels []int

	for _, servoConfig := range config.Servos {
		if slices.Contains(ids, servoConfig.ID) {
			return fmt.Errorf("duplicate servo id: %s", servoConfig.ID)
		}
		ids = append(ids, servoConfig.ID)

		if servoConfig.Channel < 0 {
			return fmt.Errorf("servo %s: invalid channel, must be >= 0", servoConfig.ID)
		}
		if slices.Contains(channels, servoConfig.Channel) {
			ui.Warning("Servo %s shares channel %d with another servo", servoConfig.ID, servoConfig.Channel)
		}
		channels = append(channels, servoConfig.Channel)

		if servoConfig.MinAngle >= servoConfig.MaxAngle {
			return fmt.Errorf("servo %s: min angle %f must be below max angle %f",
				servoConfig.ID, servoConfig.MinAngle, servoConfig.MaxAngle)
		}
		if servoConfig.DefaultSpeed < 0 {
			return fmt.Errorf("servo %s: default speed must be >= 0", servoConfig.ID)
		}

		if servoConfig.Calibration != nil && servoConfig.Calibration.Scale <= 0 {
			return fmt.Errorf("servo %s: calibration scale must be > 0", servoConfig.ID)
		}
		if servoConfig.Thresholds != nil {
			if err := validateThresholds("servo "+servoConfig.ID, servoConfig.Thresholds); err != nil {
				return err
			}
		}

		if servoConfig.Telemetry != nil {
			if servoConfig.Telemetry.PollingRate < 0 {
				return fmt.Errorf("servo %s: telemetry polling rate must be >= 0", servoConfig.ID)
			}
			if servoConfig.Telemetry.TemperatureFile == "" &&
				servoConfig.Telemetry.CurrentFile == "" &&
				servoConfig.Telemetry.VoltageFile == "" {
				return fmt.Errorf("servo %s: telemetry block needs at least one source file", servoConfig.ID)
			}
		}

		subConfigs := 0
		if servoConfig.File != nil {
			subConfigs++
		}
		if servoConfig.Cmd != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("servo %s: only one driver type can be used per servo definition block", servoConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("servo %s: driver sub-configuration is missing, use one of: file | cmd", servoConfig.ID)
		}
		if servoConfig.File != nil && servoConfig.File.Path == "" {
			return fmt.Errorf("servo %s: file driver path must not be empty", servoConfig.ID)
		}
		if servoConfig.Cmd != nil && servoConfig.Cmd.Exec == "" {
			return fmt.Errorf("servo %s: cmd driver exec must not be empty", servoConfig.ID)
		}
	}

	return nil
}
