package calibration

import (
	"github.com/spf13/cobra"

	"servo2go/internal/calibration"
	"servo2go/internal/configuration"
	"servo2go/internal/ui"
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the calibration of all configured servos as a named profile",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		profile := calibration.NewProfile(args[0])
		for _, config := range configuration.CurrentConfig.Servos {
			servoProfile := calibration.ServoProfile{
				Scale:    1,
				MinAngle: config.MinAngle,
				MaxAngle: config.MaxAngle,
			}
			if config.Calibration != nil {
				servoProfile.Offset = config.Calibration.Offset
				servoProfile.Scale = config.Calibration.Scale
				servoProfile.Trim = config.Calibration.Trim
			}
			profile.Set(config.ID, servoProfile)
		}

		if err := pers.SaveProfile(*profile); err != nil {
			return err
		}
		ui.Success("Saved calibration profile '%s' with %d servos", profile.ProfileName, profile.ServoCount)
		return nil
	},
}

func init() {
	Command.AddCommand(saveCmd)
}
