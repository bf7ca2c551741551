package calibration

import (
	"github.com/spf13/cobra"

	"servo2go/internal/configuration"
	"servo2go/internal/persistence"
	"servo2go/internal/ui"
)

var Command = &cobra.Command{
	Use:              "calibration",
	Short:            "Calibration profile related commands",
	Long:             ``,
	TraverseChildren: true,
}

func getPersistence() persistence.Persistence {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	dbPath := configuration.CurrentConfig.DbPath
	ui.Debug("Using persistence at: %s", dbPath)

	pers := persistence.NewPersistence(dbPath)
	if err := pers.Init(); err != nil {
		ui.FatalWithoutStacktrace("Unable to initialize database %s: %v", dbPath, err)
	}
	return pers
}
