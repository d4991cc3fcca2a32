// cmd/circulation/main.go
package main

import (
	"context"
	"log"
	"os"

	"libranexus/internal/app"
	"libranexus/internal/catalog"
	"libranexus/internal/circulation"
	"libranexus/internal/clients"
	"libranexus/internal/patrons"
	"libranexus/internal/platform/config"
	"libranexus/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.FromEnv("8082")

	tables := []store.Table{circulation.CheckoutsTable, circulation.HoldsTable}
	if cfg.CatalogServiceURL == "" {
		tables = append(tables, catalog.BooksTable)
	}
	if cfg.PatronServiceURL == "" {
		tables = append(tables, patrons.PartiesTable)
	}

	a, err := app.Start(ctx, "circulation", cfg, tables...)
	if err != nil {
		log.Fatalf("circulation: %v", err)
	}
	defer a.Close()

	books, parties := finders(a)
	opts := []circulation.Option{circulation.WithLogger(a.Logger), circulation.WithMetrics(a.Metrics)}
	checkouts := circulation.NewCheckoutService(cfg.Library(), a.Store.Backend, books, parties, a.Publisher, opts...)
	holds := circulation.NewHoldService(cfg.Library(), a.Store.Backend, books, parties, a.Publisher, opts...)

	r := a.Router()
	circulation.NewHandler(checkouts, holds, a.Logger).Register(r)

	if err := a.Serve(ctx, r); err != nil {
		a.Logger.Error("circulation service stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
}

// finders reaches the catalog and patron services over HTTP when their
// URLs are configured and reads the shared store otherwise.
func finders(a *app.App) (circulation.BookFinder, circulation.PatronFinder) {
	var (
		books   circulation.BookFinder
		parties circulation.PatronFinder
	)
	if url := a.Config.CatalogServiceURL; url != "" {
		a.Logger.Info("resolving books remotely", "url", url)
		books = clients.NewCatalogClient(url)
	} else {
		books = catalog.NewService(a.Store.Backend, a.Publisher, catalog.WithLogger(a.Logger))
	}
	if url := a.Config.PatronServiceURL; url != "" {
		a.Logger.Info("resolving patrons remotely", "url", url)
		parties = clients.NewPatronClient(url)
	} else {
		parties = patrons.NewService(a.Store.Backend, patrons.WithLogger(a.Logger))
	}
	return books, parties
}
