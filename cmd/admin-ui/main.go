package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/crmpanel/internal/config"
	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/logging"
	"github.com/edvin/crmpanel/internal/metrics"
	"github.com/edvin/crmpanel/internal/panel"
	"github.com/edvin/crmpanel/internal/session"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("failed to set up session store")
	}
	defer closeStore()

	tlsConfig, err := cfg.APITLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load CRM API TLS config")
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	client := crmapi.NewClient(cfg.CRMAPIURL, store,
		crmapi.WithHTTPClient(&http.Client{Transport: transport}),
		crmapi.WithTimeout(cfg.CRMAPITimeout),
	)

	srv, err := panel.NewServer(logger, client, store, panel.Options{
		ServeMetrics: cfg.MetricsListenAddr == "",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build panel")
	}

	// A page makes at most two upstream calls in sequence.
	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.CRMAPITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.MetricsListenAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsListenAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPListenAddr).
			Str("api", cfg.CRMAPIURL).
			Str("session_backend", cfg.Session.Backend).
			Msg("starting CRM admin panel")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := session.ConnectRedis(ctx, session.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		metrics.RegisterRedisPoolMetrics(prometheus.DefaultRegisterer, client)
		return session.NewRedisStore(client, cfg.CookieOptions()), func() { client.Close() }, nil
	default:
		store, err := session.NewCookieStore([]byte(cfg.Session.Secret), cfg.CookieOptions())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
