package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"servo2go/cmd/global"
	"servo2go/internal/configuration"
	"servo2go/internal/persistence"
	"servo2go/internal/ui"
)

var Command = &cobra.Command{
	Use:   "report",
	Short: "Print the latest persisted health report to console",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if err := pers.Init(); err != nil {
			return err
		}

		healthReport, err := pers.LoadLatestReport()
		if err != nil {
			return err
		}

		ui.Printfln("Health report from %s", healthReport.Timestamp.Format("2006-01-02 15:04:05"))

		names := make([]string, 0, len(healthReport.Servos))
		for name := range healthReport.Servos {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			entry := healthReport.Servos[name]
			temperature := "unknown"
			if entry.Temperature != nil {
				temperature = fmt.Sprintf("%.1f °C", *entry.Temperature)
			}
			current := "unknown"
			if entry.Current != nil {
				current = fmt.Sprintf("%.0f mA", *entry.Current)
			}
			rows = append(rows, []string{
				name,
				temperature,
				current,
				string(entry.Status),
				fmt.Sprintf("%d", entry.Movements),
			})
		}

		tab := table.Table{
			Headers: []string{"Servo", "Temperature", "Current", "Status", "Movements"},
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
		return nil
	},
}
