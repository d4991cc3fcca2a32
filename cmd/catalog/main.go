// cmd/catalog/main.go
package main

import (
	"context"
	"log"
	"os"

	"libranexus/internal/app"
	"libranexus/internal/catalog"
	"libranexus/internal/platform/config"
)

func main() {
	ctx := context.Background()
	a, err := app.Start(ctx, "catalog", config.FromEnv("8081"), catalog.BooksTable)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	defer a.Close()

	svc := catalog.NewService(a.Store.Backend, a.Publisher,
		catalog.WithLogger(a.Logger),
		catalog.WithMetrics(a.Metrics),
	)
	r := a.Router()
	catalog.NewHandler(svc, a.Logger).Register(r)

	if err := a.Serve(ctx, r); err != nil {
		a.Logger.Error("catalog service stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}
