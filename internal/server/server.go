// Package server exposes the calculators and per-session scenario books over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/theirongolddev/homeloan/internal/store"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr string
	// RateLimit is requests per second across all clients; zero disables it.
	RateLimit float64
	Burst     int
	CacheTTL  time.Duration
	// Sessions untouched for SessionTTL are purged every PurgeInterval.
	SessionTTL    time.Duration
	PurgeInterval time.Duration
	Logger        *slog.Logger
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time `json:"started_at"`
	UptimeSec     int64     `json:"uptime_sec"`
	Sessions      int       `json:"sessions"`
	CachedResults int       `json:"cached_results"`
	LastPurgeAt   time.Time `json:"last_purge_at,omitzero"`
	Purged        int64     `json:"purged"`
}

// Service provides the HTTP API.
type Service struct {
	cfg       Config
	store     *store.Store
	results   *cache.Cache
	limiter   *rate.Limiter
	log       *slog.Logger
	startedAt time.Time

	mu          sync.RWMutex
	lastPurgeAt time.Time
	purged      int64
}

// New returns a service backed by st.
func New(cfg Config, st *store.Store) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = 5 * time.Minute
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Service{
		cfg:       cfg,
		store:     st,
		results:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		log:       cfg.Logger,
		startedAt: time.Now(),
	}
}

// Handler returns the API router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Post("/amortization", s.handleAmortization)
		r.Post("/amortization/schedule.csv", s.handleScheduleCSV)
		r.Post("/income", s.handleIncome)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Get("/scenarios", s.handleListScenarios)
			r.Post("/scenarios", s.handleAddScenario)
			r.Delete("/scenarios", s.handleClearScenarios)
			r.Get("/scenarios/{scenarioID}/schedule.csv", s.handleScenarioCSV)

			r.Post("/streams", s.handleAddStream)
		})
	})

	return r
}

// Run serves the API and purges idle sessions until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr)

	ticker := time.NewTicker(s.cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.log.Info("shutting down")
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.purgeOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func (s *Service) purgeOnce(ctx context.Context) {
	n, err := s.store.PurgeIdle(ctx, time.Now().Add(-s.cfg.SessionTTL))
	if err != nil {
		s.log.Error("purging idle sessions", "err", err)
		return
	}
	s.mu.Lock()
	s.lastPurgeAt = time.Now()
	s.purged += n
	s.mu.Unlock()
	if n > 0 {
		s.log.Info("purged idle sessions", "count", n)
	}
}

func (s *Service) status(ctx context.Context) (Status, error) {
	n, err := s.store.SessionCount(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:     s.startedAt,
		UptimeSec:     int64(time.Since(s.startedAt).Seconds()),
		Sessions:      n,
		CachedResults: s.results.ItemCount(),
		LastPurgeAt:   s.lastPurgeAt,
		Purged:        s.purged,
	}, nil
}
