// Package proxy is the public edge: it forwards /api/v1/<service>/... to
// the matching backend service.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"libranexus/internal/library"
	"libranexus/internal/platform/httpx"
)

const prefix = "/api/v1/"

// Routes maps a path segment to the base URL of its upstream.
type Routes map[string]string

func New(routes Routes, logger *slog.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for name, raw := range routes {
		target, err := url.Parse(raw)
		if err != nil || target.Host == "" {
			return nil, library.Validation("400", "upstream %s has invalid url %q", name, raw)
		}
		rp := httputil.NewSingleHostReverseProxy(target)
		rp.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			logger.WarnContext(req.Context(), "upstream unreachable", "upstream", name, "error", err)
			httpx.WriteError(w, library.FromTransport(err, "%s service unreachable", name))
		}
		mount := prefix + name
		r.Mount(mount, http.StripPrefix(mount, rp))
		logger.Info("proxy route", "path", mount, "upstream", target.String())
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, library.NotFound("no route for %s", req.URL.Path))
	})
	return r, nil
}
