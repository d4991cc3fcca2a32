package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libranexus/internal/app"
	"libranexus/internal/catalog"
	"libranexus/internal/library"
	"libranexus/internal/platform/config"
)

func TestStartWithDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PUBLISHER", "store")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	a, err := app.Start(context.Background(), "catalog", config.FromEnv("0"), catalog.BooksTable)
	require.NoError(t, err)
	defer a.Close()

	r := a.Router()
	catalog.NewHandler(catalog.NewService(a.Store.Backend, a.Publisher, catalog.WithMetrics(a.Metrics)), a.Logger).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestStartRejectsUnknownPublisher(t *testing.T) {
	cfg := config.FromEnv("0")
	cfg.Store.Backend = "memory"
	cfg.Publisher.Kind = "carrier-pigeon"
	cfg.OTLPEndpoint = ""

	_, err := app.Start(context.Background(), "catalog", cfg)
	assert.Error(t, err)
}

func TestChaosHitsStorePublisherOnce(t *testing.T) {
	cfg := config.FromEnv("0")
	cfg.Store.Backend = "memory"
	cfg.Publisher.Kind = "store"
	cfg.OTLPEndpoint = ""
	cfg.Chaos = config.Chaos{BlastRadius: 1}
	ctx := context.Background()

	a, err := app.Start(ctx, "catalog", cfg, catalog.BooksTable)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Injector)

	event, err := library.NewEvent(library.EventAdded, "book", "catalog", "b1", nil, map[string]string{"book_id": "b1"})
	require.NoError(t, err)
	require.NoError(t, a.Publisher.Publish(ctx, event))
	assert.Equal(t, 1, a.Injector.Affected(), "one publish meets the injector once")

	// one for the books put, one for the announcement
	svc := catalog.NewService(a.Store.Backend, a.Publisher)
	_, err = svc.AddBook(ctx, catalog.AddBookRequest{ISBN: "0306406152", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Injector.Affected())
}
