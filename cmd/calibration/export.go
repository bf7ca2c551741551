package calibration

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"servo2go/internal/configuration"
	"servo2go/internal/ui"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a stored calibration profile as JSON",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		profile, err := pers.LoadProfile(args[0])
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = filepath.Join(configuration.CurrentConfig.ExportDir, profile.ProfileName+".json")
		}

		if err := profile.Export(path); err != nil {
			return err
		}
		ui.Success("Exported calibration profile '%s' to: %s", profile.ProfileName, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults to the configured export directory)")
	Command.AddCommand(exportCmd)
}
