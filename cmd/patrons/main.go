// cmd/patrons/main.go
package main

import (
	"context"
	"log"
	"os"

	"libranexus/internal/app"
	"libranexus/internal/patrons"
	"libranexus/internal/platform/config"
)

func main() {
	ctx := context.Background()
	cfg := config.FromEnv("8083")
	a, err := app.Start(ctx, "patrons", cfg, patrons.PartiesTable)
	if err != nil {
		log.Fatalf("patrons: %v", err)
	}
	defer a.Close()

	svc := patrons.NewService(a.Store.Backend,
		patrons.WithLogger(a.Logger),
		patrons.WithMetrics(a.Metrics),
		patrons.WithAuthRate(cfg.AuthRatePerMinute),
	)
	r := a.Router()
	patrons.NewHandler(svc, a.Logger).Register(r)

	if err := a.Serve(ctx, r); err != nil {
		a.Logger.Error("patron service stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
