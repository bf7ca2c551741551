package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"servo2go/internal/configuration"
	"servo2go/internal/ui"
)

var Command = &cobra.Command{
	Use:              "monitor",
	Short:            "Health monitor related commands, queries a running daemon",
	Long:             ``,
	TraverseChildren: true,
}

// apiAddress resolves the REST address of the running daemon from the
// configuration file.
func apiAddress() string {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Debug("Using configuration file at: %s", configPath)
	configuration.LoadConfig()

	host := configuration.CurrentConfig.Api.Host
	port := configuration.CurrentConfig.Api.Port
	return fmt.Sprintf("http://%s:%d", host, port)
}

func fetchJson(path string, target interface{}) error {
	client := http.Client{Timeout: 5 * time.Second}
	response, err := client.Get(apiAddress() + path)
	if err != nil {
		return fmt.Errorf("unable to reach the daemon, is it running? (%w)", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned %s for %s", response.Status, path)
	}
	return json.NewDecoder(response.Body).Decode(target)
}
