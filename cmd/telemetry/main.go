package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/hearthgrid/smarthouse/internal/app/bootstrap"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	runtime, err := bootstrap.NewTelemetryRuntime(ctx, "configs/default.yaml")
	if err != nil {
		log.Fatalf("bootstrap telemetry runtime: %v", err)
	}
	if err := runtime.Run(ctx); err != nil {
		log.Fatalf("run telemetry: %v", err)
	}
}
