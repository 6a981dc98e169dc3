// Package metrics exposes Prometheus collectors for the signaling
// engine and the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parley_ws_connections",
		Help: "Current number of active websocket connections",
	})
	RoomsLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parley_rooms_live",
		Help: "Current number of live rooms",
	})
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_messages_total",
		Help: "Total chat messages accepted, by kind",
	}, []string{"kind"})
	SignalRelayedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_signal_relayed_total",
		Help: "Total point-to-point signaling frames forwarded, by kind",
	}, []string{"kind"})
	SignalDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parley_signal_dropped_total",
		Help: "Signaling frames dropped because the target was gone",
	})
	FanoutDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parley_fanout_dropped_total",
		Help: "Room fan-out frames dropped on slow consumers",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		WsConnections,
		RoomsLive,
		MessagesTotal,
		SignalRelayedTotal,
		SignalDroppedTotal,
		FanoutDroppedTotal,
		HttpRequestsTotal,
		HttpRequestDuration,
	)
}

// GinMiddleware records basic request metrics for Prometheus to scrape.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
