package calibration

import (
	"github.com/spf13/cobra"

	"servo2go/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored calibration profiles",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		names, err := pers.ListProfiles()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			ui.Info("No calibration profiles stored yet.")
			return nil
		}
		for _, name := range names {
			ui.Printfln("%s", name)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
