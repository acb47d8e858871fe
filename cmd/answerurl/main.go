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

	"vobiz-console/internal/answerurl"
	"vobiz-console/internal/config"
	"vobiz-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log, logCloser := logger.New(cfg.App.Env, logger.Options{File: cfg.Log.File})
	defer logCloser.Close()
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *answerurl.Metrics
	var servers []*http.Server

	if addr := cfg.MetricsAddr(); addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = answerurl.NewMetrics(reg)
		servers = append(servers, newServer(addr, newMetricsEngine(log, reg)))
	}

	responder := answerurl.Responder{
		CallerID:           cfg.Answer.CallerID,
		DefaultDestination: cfg.Answer.DefaultDestination,
		Metrics:            metrics,
	}
	api := newServer(cfg.HTTPAddr(), newAnswerEngine(log, responder))
	servers = append([]*http.Server{api}, servers...)

	log.Info("answer url server starting",
		"addr", api.Addr,
		"env", cfg.App.Env,
		"caller_id", cfg.Answer.CallerID,
		"default_destination", cfg.Answer.DefaultDestination,
		"metrics_addr", cfg.MetricsAddr(),
	)

	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server failed", "addr", srv.Addr, "err", err)
				stop()
			}
		}(srv)
	}

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown failed", "addr", srv.Addr, "err", err)
		}
	}
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
