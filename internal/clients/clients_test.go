package clients_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libranexus/internal/catalog"
	"libranexus/internal/circulation"
	"libranexus/internal/clients"
	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/patrons"
	"libranexus/internal/platform/httpx"
	"libranexus/internal/store/memory"
)

var (
	_ circulation.BookFinder   = (*clients.CatalogClient)(nil)
	_ circulation.PatronFinder = (*clients.PatronClient)(nil)
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func noDelay() clients.Option {
	return clients.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })
}

func TestCatalogClientAgainstService(t *testing.T) {
	backend := memory.New()
	svc := catalog.NewService(backend, gateway.NewLogPublisher(quiet()), catalog.WithLogger(quiet()))
	book, err := svc.AddBook(context.Background(), catalog.AddBookRequest{ISBN: "978-0", Title: "Dune", Restricted: true})
	require.NoError(t, err)

	r := chi.NewRouter()
	catalog.NewHandler(svc, quiet()).Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := clients.NewCatalogClient(srv.URL+"/", noDelay())
	got, err := c.FindBookByID(context.Background(), book.BookID)
	require.NoError(t, err)
	assert.Equal(t, book.BookID, got.BookID)
	assert.True(t, got.IsRestricted())
	assert.Equal(t, library.BookAvailable, got.Status)

	_, err = c.FindBookByID(context.Background(), "missing")
	assert.True(t, library.IsKind(err, library.KindNotFound), "got %v", err)
}

func TestPatronClientAgainstService(t *testing.T) {
	svc := patrons.NewService(memory.New(), patrons.WithLogger(quiet()))
	patron, err := svc.AddPatron(context.Background(), patrons.AddPatronRequest{
		Email:      "ada@example.org",
		GroupRoles: []library.Role{library.RoleLibrarian},
		PIN:        "1234",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	patrons.NewHandler(svc, quiet()).Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := clients.NewPatronClient(srv.URL, noDelay())
	got, err := c.FindPatronByID(context.Background(), patron.PartyID)
	require.NoError(t, err)
	assert.True(t, got.IsLibrarian())
	assert.Nil(t, got.Credential)
}

func TestClientRetriesRetryableFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			httpx.WriteError(w, library.Unavailable("dispatch", true, "busy"))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, catalog.BookResponse{Book: &catalog.Book{BookID: "b1"}})
	}))
	defer srv.Close()

	got, err := clients.NewCatalogClient(srv.URL, noDelay()).FindBookByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.BookID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterMaxTries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := clients.NewPatronClient(srv.URL, noDelay(), clients.WithMaxTries(2)).FindPatronByID(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, library.IsRetryable(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		httpx.WriteError(w, library.Validation("400", "bad id"))
	}))
	defer srv.Close()

	_, err := clients.NewCatalogClient(srv.URL, noDelay()).FindBookByID(context.Background(), "b1")
	assert.True(t, library.IsKind(err, library.KindValidation))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := clients.NewCatalogClient(url, noDelay(), clients.WithMaxTries(1),
		clients.WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.FindBookByID(context.Background(), "b1")
	assert.True(t, library.IsKind(err, library.KindCurrentlyUnavailable), "got %v", err)
}
