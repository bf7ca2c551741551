package servo

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"servo2go/internal/curves"
	"servo2go/internal/servos"
	"servo2go/internal/ui"
)

var (
	moveDurationMs int64
	moveSpeed      float64
	moveCurve      string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move the servo to the given angle (in degrees)",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetAngle, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		servo, err := getServo(servoId)
		if err != nil {
			return err
		}

		command := servos.MoveCommand{
			TargetAngle: targetAngle,
			Curve:       curves.Curve(moveCurve),
			Blocking:    true,
		}
		if cmd.Flags().Changed("duration") {
			duration := time.Duration(moveDurationMs) * time.Millisecond
			command.Duration = &duration
		}
		if cmd.Flags().Changed("speed") {
			speed := moveSpeed
			command.Speed = &speed
		}

		if err := servo.MoveTo(command); err != nil {
			return err
		}

		status := servo.GetHealthStatus()
		if status.Verdict.Status.Severity() > 0 {
			ui.Warning("Servo %s at %.2f° (%s)", servo.GetId(), status.Motion.CurrentAngle, status.Verdict.Status)
		} else {
			ui.Success("Servo %s at %.2f°", servo.GetId(), status.Motion.CurrentAngle)
		}
		return nil
	},
}

func init() {
	moveCmd.Flags().Int64VarP(&moveDurationMs, "duration", "d", 0, "Movement duration in milliseconds")
	moveCmd.Flags().Float64VarP(&moveSpeed, "speed", "s", 0, "Movement speed in degrees per second")
	moveCmd.Flags().StringVarP(&moveCurve, "curve", "", "", "Easing curve (linear, ease_in, ease_out, ease_in_out)")
	Command.AddCommand(moveCmd)
}
