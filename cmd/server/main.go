package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/exsplitter/internal/auth"
	"github.com/mmynk/exsplitter/internal/config"
	"github.com/mmynk/exsplitter/internal/metrics"
	"github.com/mmynk/exsplitter/internal/middleware"
	"github.com/mmynk/exsplitter/internal/notify"
	"github.com/mmynk/exsplitter/internal/service"
	"github.com/mmynk/exsplitter/internal/storage"
	"github.com/mmynk/exsplitter/internal/storage/sqlite"
	"github.com/mmynk/exsplitter/pkg/api"
	"github.com/mmynk/exsplitter/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A .env file is optional; real environment variables win.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", envErr)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasscodeAuthenticator(store)
	broker := notify.NewBroker()

	mux := http.NewServeMux()

	// Register Connect services
	tripPath, tripHandler := api.NewTripServiceHandler(
		service.NewTripService(store, authenticator, jwtManager),
		middleware.ServerInterceptors(middleware.OptionalTripToken(jwtManager), m),
	)
	mux.Handle(tripPath, tripHandler)

	expensePath, expenseHandler := api.NewExpenseServiceHandler(
		service.NewExpenseService(store, broker, m),
		middleware.ServerInterceptors(middleware.RequireTripToken(jwtManager), m),
	)
	mux.Handle(expensePath, expenseHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", healthHandler(store))

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(cfg.AllowedOrigin, mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	server := newServer(cfg.Addr(), h2cHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", "http://localhost"+server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}

// newServer builds the HTTP server. Request contexts are cancelled once
// Shutdown starts, so open WatchTrip streams end instead of holding the
// shutdown until its timeout.
func newServer(addr string, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancel)
	return server
}

// healthHandler reports whether the store is reachable.
func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
