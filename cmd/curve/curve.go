package curve

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "curve",
	Short:            "Easing curve related commands",
	Long:             ``,
	TraverseChildren: true,
}
