package main

import (
	"context"

	"affdash-backend/cmd/affdash-cli/commands"
	"affdash-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "affdash-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
