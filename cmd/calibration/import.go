package calibration

import (
	"os"

	"github.com/spf13/cobra"

	"servo2go/internal/calibration"
	"servo2go/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a calibration profile from a JSON file",
	Long: `Reads a calibration profile from the given JSON file and stores it.
Files with unknown keys are rejected to catch typos early.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		profile, err := calibration.UnmarshalProfile(data)
		if err != nil {
			return err
		}

		if err := pers.SaveProfile(*profile); err != nil {
			return err
		}
		ui.Success("Imported calibration profile '%s' with %d servos", profile.ProfileName, profile.ServoCount)
		return nil
	},
}

func init() {
	Command.AddCommand(importCmd)
}
