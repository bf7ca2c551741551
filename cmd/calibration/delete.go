package calibration

import (
	"github.com/spf13/cobra"

	"servo2go/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored calibration profile",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		if err := pers.DeleteProfile(args[0]); err != nil {
			return err
		}
		ui.Success("Deleted calibration profile '%s'", args[0])
		return nil
	},
}

func init() {
	Command.AddCommand(deleteCmd)
}
