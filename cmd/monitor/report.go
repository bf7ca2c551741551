package monitor

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"servo2go/internal/monitor"
	"servo2go/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the current health report of a running daemon as JSON",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var healthReport monitor.Report
		if err := fetchJson("/monitor/report/", &healthReport); err != nil {
			return err
		}

		data, err := json.MarshalIndent(healthReport, "", "  ")
		if err != nil {
			return err
		}
		ui.Printfln("%s", string(data))
		return nil
	},
}

func init() {
	Command.AddCommand(reportCmd)
}
