package monitor

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"servo2go/cmd/global"
	"servo2go/internal/health"
	"servo2go/internal/monitor"
	"servo2go/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the live supervision dashboard of a running daemon",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var dashboard monitor.DashboardSnapshot
		if err := fetchJson("/monitor/dashboard/", &dashboard); err != nil {
			return err
		}

		statusCounts := map[health.Status]int{}
		for _, status := range dashboard.Servos {
			statusCounts[status.Verdict.Status]++
		}
		ui.Printfln("Sweep from %s — %d servos (%d healthy, %d warning, %d critical, %d error)",
			dashboard.Timestamp.Format("15:04:05"),
			len(dashboard.Servos),
			statusCounts[health.StatusHealthy],
			statusCounts[health.StatusWarning],
			statusCounts[health.StatusCritical],
			statusCounts[health.StatusError],
		)

		names := make([]string, 0, len(dashboard.Servos))
		for name := range dashboard.Servos {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			status := dashboard.Servos[name]
			temperature := "unknown"
			if status.Telemetry.Temperature != nil {
				temperature = fmt.Sprintf("%.1f °C", *status.Telemetry.Temperature)
			}
			current := "unknown"
			if status.Telemetry.Current != nil {
				current = fmt.Sprintf("%.0f mA", *status.Telemetry.Current)
			}
			rows = append(rows, []string{
				name,
				fmt.Sprintf("%.2f°", status.Motion.CurrentAngle),
				string(status.Verdict.Status),
				temperature,
				current,
				fmt.Sprintf("%d", status.Counters.TotalMovements),
				fmt.Sprintf("%d", status.Counters.ErrorCount),
			})
		}

		tab := table.Table{
			Headers: []string{"Servo", "Angle", "Status", "Temperature", "Current", "Movements", "Errors"},
			Rows:    rows,
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

		if len(dashboard.Alerts) > 0 {
			ui.Printfln("Recent alerts:")
			for _, alert := range dashboard.Alerts {
				ui.Printfln("  %s  %s", alert.Timestamp.Format("15:04:05"), alert.Message)
			}
		}
		return nil
	},
}

func init() {
	Command.AddCommand(dashboardCmd)
}
