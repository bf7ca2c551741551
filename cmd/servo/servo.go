package servo

import (
	"fmt"

	"github.com/spf13/cobra"

	"servo2go/internal/configuration"
	"servo2go/internal/servos"
	"servo2go/internal/ui"
)

var servoId string

var Command = &cobra.Command{
	Use:              "servo",
	Short:            "Servo related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&servoId,
		"id", "i",
		"",
		"Servo ID as specified in the config",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getServo(id string) (*servos.Servo, error) {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	availableServoIds := []string{}
	for _, config := range configuration.CurrentConfig.Servos {
		availableServoIds = append(availableServoIds, config.ID)
		if config.ID == id {
			driver, err := servos.NewDriver(config)
			if err != nil {
				return nil, err
			}
			return servos.NewServo(config, driver)
		}
	}

	return nil, fmt.Errorf("no servo with id found: %s, options: %s", id, availableServoIds)
}
