package servo

import (
	"bytes"
	"fmt"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"servo2go/cmd/global"
	"servo2go/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current state and health verdict of the servo",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		servo, err := getServo(servoId)
		if err != nil {
			return err
		}

		status := servo.GetHealthStatus()

		temperature := "unknown"
		if status.Telemetry.Temperature != nil {
			temperature = fmt.Sprintf("%.1f °C", *status.Telemetry.Temperature)
		}
		current := "unknown"
		if status.Telemetry.Current != nil {
			current = fmt.Sprintf("%.0f mA", *status.Telemetry.Current)
		}

		tab := table.Table{
			Headers: []string{"ID", "Channel", "Angle", "Range", "Status", "Temperature", "Current", "Movements"},
			Rows: [][]string{
				{
					status.Info.Name,
					fmt.Sprintf("%d", status.Info.Channel),
					fmt.Sprintf("%.2f°", status.Motion.CurrentAngle),
					fmt.Sprintf("[%.0f°, %.0f°]", status.Info.MinAngle, status.Info.MaxAngle),
					string(status.Verdict.Status),
					temperature,
					current,
					fmt.Sprintf("%d", status.Counters.TotalMovements),
				},
			},
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())
		return nil
	},
}

func init() {
	Command.AddCommand(statusCmd)
}
