package main

import (
	"context"
	"net/http"
	"time"
	"dealwatch-backend/lib/catalog"
	"dealwatch-backend/lib/configutil"
	"dealwatch-backend/lib/notify"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/lib/telemetry"
	"dealwatch-backend/services/scraper"
	"dealwatch-backend/services/watcher"
)

type Config struct {
	Port                 int    `json:"port"`
	CatalogBaseURL       string `json:"catalog_base_url"`
	NotifyBaseURL        string `json:"notify_base_url"`
	CheckIntervalMinutes int    `json:"check_interval_minutes"`
	TimeoutSeconds       int    `json:"timeout_seconds"`
	Verbose              bool   `json:"verbose"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.CheckIntervalMinutes == 0 {
		config.CheckIntervalMinutes = 30
	}
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 30
	}

	telemetry.InitSlog(config.Verbose)
	t, err := telemetry.SetupFromEnv(ctx, "watcherd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	policy := retryutil.Default()

	service := watcher.NewService(
		catalog.NewClient(config.CatalogBaseURL, timeout, policy),
		notify.NewClient(config.NotifyBaseURL, timeout, policy),
		scraper.NewRegistry(scraper.NewFetcher(timeout, policy)),
		time.Duration(config.CheckIntervalMinutes)*time.Minute,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	go serviceutil.StartHttpServer(config.Port, mux)

	service.Run(ctx)
}
