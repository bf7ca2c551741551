package monitor

import (
	"fmt"
	"net/url"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"servo2go/internal/monitor"
	"servo2go/internal/ui"
)

var trendsDuration string

var trendsCmd = &cobra.Command{
	Use:   "trends <servo> <metric>",
	Short: "Plot the recorded trend of a servo metric from a running daemon",
	Long: `Plots the trend samples the daemon recorded for the given servo and
metric (temperature, current, voltage, angle) as an ascii graph.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		servoId := args[0]
		metric := args[1]

		path := fmt.Sprintf("/monitor/trends/%s/%s/", url.PathEscape(servoId), url.PathEscape(metric))
		if trendsDuration != "" {
			path += "?duration=" + url.QueryEscape(trendsDuration)
		}

		var samples []monitor.TrendSample
		if err := fetchJson(path, &samples); err != nil {
			return err
		}
		if len(samples) == 0 {
			ui.Info("No %s samples recorded for servo %s yet.", metric, servoId)
			return nil
		}

		values := make([]float64, 0, len(samples))
		for _, sample := range samples {
			values = append(values, sample.Value)
		}

		caption := fmt.Sprintf("%s / time (%d samples, %s - %s)",
			metric,
			len(samples),
			samples[0].Timestamp.Format("15:04:05"),
			samples[len(samples)-1].Timestamp.Format("15:04:05"),
		)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVarP(&trendsDuration, "duration", "d", "", "Limit the window (Go duration syntax, e.g. 10m)")
	Command.AddCommand(trendsCmd)
}
