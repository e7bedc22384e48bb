package commands

import (
	"time"
	"dealwatch-backend/lib/catalog"
	"dealwatch-backend/lib/configutil"
	"dealwatch-backend/lib/notify"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/services/scraper"
	"dealwatch-backend/services/watcher"

	"github.com/spf13/cobra"
)

type cycleConfig struct {
	CatalogBaseURL string `json:"catalog_base_url"`
	NotifyBaseURL  string `json:"notify_base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Runs a single check cycle against the configured catalog and exits.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := configutil.ReadConfig[cycleConfig]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if config.TimeoutSeconds == 0 {
			config.TimeoutSeconds = 30
		}

		timeout := time.Duration(config.TimeoutSeconds) * time.Second
		policy := retryutil.Default()

		service := watcher.NewService(
			catalog.NewClient(config.CatalogBaseURL, timeout, policy),
			notify.NewClient(config.NotifyBaseURL, timeout, policy),
			scraper.NewRegistry(scraper.NewFetcher(timeout, policy)),
			time.Minute,
		)
		if err := service.RunCycle(cmd.Context()); err != nil {
			serviceutil.Fatal("check cycle failed", err)
		}
	},
}
