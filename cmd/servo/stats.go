package servo

import (
	"github.com/spf13/cobra"

	"servo2go/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the movement statistics of the servo",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		servo, err := getServo(servoId)
		if err != nil {
			return err
		}

		stats := servo.GetMovementStats()
		ui.Printfln("Movements:      %d", stats.TotalMovements)
		ui.Printfln("Total distance: %.2f°", stats.TotalDistanceDeg)
		ui.Printfln("Average speed:  %.2f°/s", stats.AverageSpeed)
		if stats.LastMovement != nil {
			ui.Printfln("Last movement:  %.2f° -> %.2f° over %v",
				stats.LastMovement.From, stats.LastMovement.To, stats.LastMovement.Duration)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(statsCmd)
}
