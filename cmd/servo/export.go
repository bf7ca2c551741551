package servo

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"servo2go/internal/configuration"
	"servo2go/internal/ui"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full data snapshot of the servo as JSON",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		servo, err := getServo(servoId)
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = filepath.Join(configuration.CurrentConfig.ExportDir, servo.GetId()+".json")
		}

		if err := servo.ExportToFile(path); err != nil {
			return err
		}
		ui.Success("Exported servo %s to: %s", servo.GetId(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults to the configured export directory)")
	Command.AddCommand(exportCmd)
}
