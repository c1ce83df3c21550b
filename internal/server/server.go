package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"alert_relay/internal/infra"
	"alert_relay/internal/infra/storage"
)

// Server owns the HTTP surface of the relay: the webhook endpoint plus the
// observability endpoints around it. Configuration is injected at
// construction; handlers hold no package-level state.
type Server struct {
	cfg       *infra.Config
	journal   *infra.Journal
	forwarder *infra.Forwarder
	metrics   *infra.Metrics
	store     *storage.Storage
	hub       *Hub
	recorder  *Recorder
	srv       *http.Server
	logger    *slog.Logger
}

// New wires the relay server from its dependencies.
func New(cfg *infra.Config, journal *infra.Journal, forwarder *infra.Forwarder, metrics *infra.Metrics, store *storage.Storage) *Server {
	hub := NewHub(metrics)
	return &Server{
		cfg:       cfg,
		journal:   journal,
		forwarder: forwarder,
		metrics:   metrics,
		store:     store,
		hub:       hub,
		recorder:  NewRecorder(store, hub),
		logger:    slog.Default().With("module", "server"),
	}
}

// Handler builds the route table. Exposed separately so tests can drive the
// mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/deliveries", s.handleDeliveries)
	mux.Handle("/stream", s.hub)
	return mux
}

// Start runs the recorder and the HTTP listener. Blocks until the listener
// stops.
func (s *Server) Start(ctx context.Context) error {
	s.recorder.Start(ctx)

	s.srv = &http.Server{
		Addr:         s.cfg.Server.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
	}

	s.logger.Info("Webhook relay listening",
		slog.String("addr", s.cfg.Server.ListenAddr),
		slog.String("remote", s.cfg.Remote.URL))

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the listener, the stream and the recorder.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}
	s.hub.CloseAll()
	s.recorder.Stop()
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// handleDeliveries returns recent delivery history, newest first.
// Optional query params: limit (capped at 500), ticker.
func (s *Server) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := s.cfg.History.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	if limit > 500 {
		limit = 500
	}

	var err error
	var deliveries any
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		deliveries, err = s.store.DeliveriesByTicker(ticker, limit)
	} else {
		deliveries, err = s.store.RecentDeliveries(limit)
	}
	if err != nil {
		s.logger.Error("Failed to load deliveries", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load deliveries"})
		return
	}

	writeJSON(w, http.StatusOK, deliveries)
}
