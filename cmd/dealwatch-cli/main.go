package main

import (
	"context"
	"dealwatch-backend/cmd/dealwatch-cli/commands"
	"dealwatch-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "dealwatch-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
