package main

import (
	"context"
	"net/http"
	"dealwatch-backend/lib/configutil"
	"dealwatch-backend/lib/serviceutil"
	"dealwatch-backend/lib/telemetry"
	"dealwatch-backend/services/offers"
)

type Config struct {
	Port    int  `json:"port"`
	Verbose bool `json:"verbose"`
}

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Port == 0 {
		config.Port = 8081
	}

	telemetry.InitSlog(config.Verbose)
	t, err := telemetry.SetupFromEnv(ctx, "offerd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	mux := http.NewServeMux()
	offers.NewService().RegisterRoutes(mux)
	go serviceutil.StartHttpServer(config.Port, mux)

	<-ctx.Done()
}
