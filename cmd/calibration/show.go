package calibration

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"servo2go/cmd/global"
	"servo2go/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored calibration profile to console",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pers := getPersistence()

		profile, err := pers.LoadProfile(args[0])
		if err != nil {
			return err
		}

		ui.Printfln("Profile: %s (created %s, %d servos)",
			profile.ProfileName, profile.CreatedAt.Format("2006-01-02 15:04:05"), profile.ServoCount)

		names := make([]string, 0, len(profile.Servos))
		for name := range profile.Servos {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			servoProfile := profile.Servos[name]
			rows = append(rows, []string{
				name,
				fmt.Sprintf("%.2f", servoProfile.Offset),
				fmt.Sprintf("%.4f", servoProfile.Scale),
				fmt.Sprintf("%.2f", servoProfile.Trim),
				fmt.Sprintf("[%.0f°, %.0f°]", servoProfile.MinAngle, servoProfile.MaxAngle),
				servoProfile.CalibratedAt.Format("2006-01-02 15:04:05"),
			})
		}

		tab := table.Table{
			Headers: []string{"Servo", "Offset", "Scale", "Trim", "Range", "Calibrated"},
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

func init() {
	Command.AddCommand(showCmd)
}
