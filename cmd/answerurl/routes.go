package main

import (
	"log/slog"

	"vobiz-console/internal/answerurl"
	"vobiz-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newAnswerEngine serves the Answer URL on every method and path.
// Keep this file free of business logic; the Responder owns it.
func newAnswerEngine(log *slog.Logger, responder answerurl.Responder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	r.HandleMethodNotAllowed = false
	r.NoRoute(responder.Handle)
	return r
}

// newMetricsEngine serves Prometheus metrics and a health probe on the side listener.
func newMetricsEngine(log *slog.Logger, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	return r
}
