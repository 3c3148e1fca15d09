package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitchamp/internal/auth"
	"github.com/mmynk/splitchamp/internal/categorizer"
	"github.com/mmynk/splitchamp/internal/config"
	"github.com/mmynk/splitchamp/internal/metrics"
	"github.com/mmynk/splitchamp/internal/middleware"
	"github.com/mmynk/splitchamp/internal/service"
	"github.com/mmynk/splitchamp/internal/storage/sqlite"
	"github.com/mmynk/splitchamp/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	cat := categorizer.Default
	if cfg.Split.VocabularyPath != "" {
		vocab, err := categorizer.LoadVocabulary(cfg.Split.VocabularyPath)
		if err != nil {
			logger.Error("Failed to load category vocabulary", "path", cfg.Split.VocabularyPath, "error", err)
			os.Exit(1)
		}
		cat = categorizer.New(vocab)
		logger.Info("Category vocabulary loaded", "path", cfg.Split.VocabularyPath)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute, cfg.Server.RateLimitBurst)

	var interceptors []connect.Interceptor
	sessionOpts := []service.Option{
		service.WithDefaultPolicy(cfg.Split.DefaultPolicy),
		service.WithCategorizer(cat),
	}

	mux := http.NewServeMux()
	if cfg.Metrics.Enabled {
		m := metrics.New()
		interceptors = append(interceptors, middleware.MetricsInterceptor(m))
		sessionOpts = append(sessionOpts, service.WithObserver(m))
		mux.Handle("/metrics", m.Handler())
	}
	interceptors = append(interceptors,
		limiter.Interceptor(),
		middleware.RequireAuth(jwtManager, service.PublicProcedures...),
		middleware.LoggingInterceptor(logger),
	)
	handlerOpts := connect.WithInterceptors(interceptors...)

	service.NewAuthService(authenticator, jwtManager, store, logger).Mount(mux, handlerOpts)
	service.NewSessionService(store, logger, sessionOpts...).Mount(mux, handlerOpts)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(requestLogger(logger, corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "default_policy", cfg.Split.DefaultPolicy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}

// requestLogger logs every HTTP request at debug level. RPC outcomes are
// logged by the interceptor chain.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
