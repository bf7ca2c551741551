package curve

import (
	"bytes"

	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"

	"servo2go/cmd/global"
	"servo2go/internal/curves"
	"servo2go/internal/ui"
)

const graphSamples = 100

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the available easing curve(s) to console",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		allCurves := []curves.Curve{
			curves.CurveLinear,
			curves.CurveEaseIn,
			curves.CurveEaseOut,
			curves.CurveEaseInOut,
		}

		for idx, curve := range allCurves {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			// print table
			tab := table.Table{
				Headers: []string{"Curve"},
				Rows: [][]string{
					{string(curve)},
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

			values := make([]float64, 0, graphSamples+1)
			for i := 0; i <= graphSamples; i++ {
				progress := float64(i) / float64(graphSamples)
				values = append(values, curve.Shape(progress)*100)
			}

			caption := "position % / time %"
			graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}

		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
