package main

import (
	"context"
	"net/http"
	"time"
	"dealwatch-backend/lib/configutil"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/lib/telemetry"
	"dealwatch-backend/services/scraper"
)

type Config struct {
	Port           int  `json:"port"`
	TimeoutSeconds int  `json:"timeout_seconds"`
	Verbose        bool `json:"verbose"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8082
	}
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 30
	}

	telemetry.InitSlog(config.Verbose)
	t, err := telemetry.SetupFromEnv(ctx, "scraperd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	fetcher := scraper.NewFetcher(
		time.Duration(config.TimeoutSeconds)*time.Second,
		retryutil.Default(),
	)

	mux := http.NewServeMux()
	scraper.NewService(scraper.NewRegistry(fetcher)).RegisterRoutes(mux)
	go serviceutil.StartHttpServer(config.Port, mux)

	<-ctx.Done()
}
