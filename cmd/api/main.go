package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/db"
	httpx "github.com/noteshub/noteshub/internal/http"
	"github.com/noteshub/noteshub/internal/http/handlers"
	"github.com/noteshub/noteshub/internal/observability"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is best effort; the service runs fine without a collector
	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(ctx, "noteshub", cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Warn("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// metrics registry
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// database pool; in dev we fall back to the in-memory store
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		if cfg.Env != "dev" {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}

		log.Warn("db unreachable, running on in-memory store", "err", err)
		pool = nil
	}

	if pool != nil {
		defer pool.Close()
	}

	version := handlers.VersionInfo{
		Version:   buildVersion,
		Commit:    buildCommit,
		BuildDate: buildDate,
	}

	// set up router
	router := httpx.NewRouter(log, pool, prom, reg, cfg, version)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "version", buildVersion)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
