// Package gateway exposes portal content over a local HTTP server. It fronts
// the upstream API with the retry layer and an optional Redis read-through
// cache, plus health and metrics endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osamhq/portal/internal/api"
	"github.com/osamhq/portal/internal/cache"
	"github.com/osamhq/portal/internal/metrics"
	"github.com/osamhq/portal/internal/notify"
	"github.com/osamhq/portal/internal/portal"
)

// Config holds gateway settings.
type Config struct {
	Port        int
	MaxAttempts int
}

// Deps are the collaborators the gateway serves from. Cache may be nil.
type Deps struct {
	Places    *portal.PlaceService
	Events    *portal.EventService
	Galleries *portal.GalleryService
	Cache     *cache.Client
	Loading   *api.LoadingTracker
	Notifier  notify.Notifier
}

// Server is the portal gateway HTTP server.
type Server struct {
	cfg     Config
	deps    Deps
	server  *http.Server
	started time.Time
}

// New creates a gateway server.
func New(cfg Config, deps Deps) *Server {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = api.DefaultMaxAttempts
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Log{}
	}
	s := &Server{cfg: cfg, deps: deps, started: time.Now()}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.Handler(),
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/places", func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		serve(s, w, r, "places", func(ctx context.Context) ([]portal.PlaceSummary, error) {
			return s.deps.Places.List(ctx, skip, limit)
		})
	})
	mux.HandleFunc("GET /v1/places/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		serve(s, w, r, "places/"+strconv.Itoa(id), func(ctx context.Context) (portal.Place, error) {
			return s.deps.Places.Get(ctx, id)
		})
	})
	mux.HandleFunc("GET /v1/events", func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		serve(s, w, r, "events", func(ctx context.Context) ([]portal.EventSummary, error) {
			return s.deps.Events.List(ctx, skip, limit)
		})
	})
	mux.HandleFunc("GET /v1/events/upcoming", func(w http.ResponseWriter, r *http.Request) {
		serve(s, w, r, "events/upcoming", func(ctx context.Context) ([]portal.EventSummary, error) {
			return s.deps.Events.Upcoming(ctx)
		})
	})
	mux.HandleFunc("GET /v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		serve(s, w, r, "events/"+strconv.Itoa(id), func(ctx context.Context) (portal.Event, error) {
			return s.deps.Events.Get(ctx, id)
		})
	})
	mux.HandleFunc("GET /v1/galleries", func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)
		serve(s, w, r, "galleries", func(ctx context.Context) ([]portal.GallerySummary, error) {
			return s.deps.Galleries.List(ctx, skip, limit)
		})
	})
	mux.HandleFunc("GET /v1/galleries/featured", func(w http.ResponseWriter, r *http.Request) {
		serve(s, w, r, "galleries/featured", func(ctx context.Context) ([]portal.GallerySummary, error) {
			return s.deps.Galleries.Featured(ctx)
		})
	})
	mux.HandleFunc("GET /v1/galleries/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		serve(s, w, r, "galleries/"+strconv.Itoa(id), func(ctx context.Context) (portal.Gallery, error) {
			return s.deps.Galleries.Get(ctx, id)
		})
	})

	return mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	slog.Info("Gateway listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// serve answers one proxy request: cache first, then the upstream through the
// retry layer. Upstream failures map to their original status; exhausted
// network-level failures become a 502.
func serve[T any](s *Server, w http.ResponseWriter, r *http.Request, resource string, fetch func(ctx context.Context) (T, error)) {
	key := cache.Key(resource, r.URL.Query())
	if s.deps.Cache != nil {
		if payload, found, err := s.deps.Cache.Get(r.Context(), key); err == nil && found {
			metrics.CacheHits.WithLabelValues(resource).Inc()
			writeJSONBytes(w, http.StatusOK, payload)
			return
		}
		metrics.CacheMisses.WithLabelValues(resource).Inc()
	}

	retrier := api.NewRetrier(api.RetryConfig{MaxAttempts: s.cfg.MaxAttempts}, s.deps.Notifier)
	out, ok := api.Do(r.Context(), retrier, resource, fetch)
	if !ok {
		writeFailure(w, retrier.Status().LastErr)
		return
	}

	payload, err := json.Marshal(out)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding failed")
		return
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(r.Context(), key, payload); err != nil {
			slog.Warn("Cache write failed", "resource", resource, "error", err)
		}
	}
	writeJSONBytes(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loading := false
	if s.deps.Loading != nil {
		loading = s.deps.Loading.Loading()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"loading":        loading,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

func pageParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeFailure(w http.ResponseWriter, err error) {
	var ae *api.Error
	if errors.As(err, &ae) && ae.StatusCode >= 400 {
		writeError(w, ae.StatusCode, ae.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "upstream unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONBytes(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
