package configuration

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"servo2go/internal/ui"
)

type Configuration struct {
	DbPath    string `json:"dbPath"`
	ExportDir string `json:"exportDir"`

	// MotionStepRate is the interval between interpolated position
	// updates written to the driver during a movement
	MotionStepRate time.Duration `json:"motionStepRate"`
	// DefaultMoveDuration applies when a move command specifies
	// neither duration nor speed
	DefaultMoveDuration time.Duration `json:"defaultMoveDuration"`

	Monitor    MonitorConfig    `json:"monitor"`
	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`

	DefaultThresholds ThresholdsConfig `json:"defaultThresholds"`

	Servos []ServoConfig `json:"servos"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("servo2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/servo2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/servo2go/servo2go.db")
	viper.SetDefault("exportdir", "/var/lib/servo2go")
	viper.SetDefault("MotionStepRate", 20*time.Millisecond)
	viper.SetDefault("DefaultMoveDuration", 1*time.Second)

	viper.SetDefault("monitor.updateInterval", 1*time.Second)
	viper.SetDefault("monitor.trendBufferSize", 1000)
	viper.SetDefault("monitor.alertBufferSize", 100)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9449)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9450)

	viper.SetDefault("defaultThresholds.tempWarning", 60.0)
	viper.SetDefault("defaultThresholds.tempCritical", 75.0)
	viper.SetDefault("defaultThresholds.currentWarning", 800.0)
	viper.SetDefault("defaultThresholds.currentCritical", 1000.0)
	viper.SetDefault("defaultThresholds.positionError", 5.0)

	viper.SetDefault("servos", []ServoConfig{})
}

// DetectAndReadConfigFile detects the path of the first existing config file
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.FatalWithoutStacktrace("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig unmarshals the read configuration into CurrentConfig
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
