package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hckrchat/internal/config"
	"hckrchat/internal/hub"
	"hckrchat/internal/metrics"
	"hckrchat/internal/store"
	"hckrchat/internal/websocket"
)

// Application wires all components and owns the HTTP server.
type Application struct {
	config     *config.Config
	store      *store.Store
	hub        *hub.Hub
	httpServer *http.Server
}

// New builds the application in dependency order:
// store -> metrics -> hub -> websocket handler -> HTTP server.
func New(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	messageStore, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	chatHub := hub.New(messageStore, m, cfg.MaxMessageLength, cfg.HistoryLimit)
	wsHandler := websocket.NewHandler(chatHub)

	app := &Application{
		config: cfg,
		store:  messageStore,
		hub:    chatHub,
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/healthz", app.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	app.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

// Start begins serving. It returns once the listener is up or startup failed.
func (app *Application) Start(ctx context.Context) error {
	slog.Info("starting chat server", "addr", app.httpServer.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		slog.Info("chat server started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts everything down in reverse dependency order: HTTP first so no
// new events arrive, then the store.
func (app *Application) Stop(ctx context.Context) error {
	slog.Info("shutting down chat server")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := app.store.Close(); err != nil {
		slog.Error("message store shutdown error", "error", err)
	}

	slog.Info("chat server shutdown complete")
	return nil
}

// Addr returns the server address.
func (app *Application) Addr() string {
	return app.httpServer.Addr
}

func (app *Application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if err := app.store.HealthCheck(ctx); err != nil {
		status = http.StatusServiceUnavailable
		body = map[string]string{"status": "unavailable", "error": err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
