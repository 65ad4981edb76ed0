package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gcdash/gcdash/pkg/observability"
)

// Metrics holds the Prometheus metrics for the dashboard. It implements the
// observability hooks so the library packages report into it.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	reloadClients  prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gcdash_page_renders_total",
			Help: "Page renders by page and result",
		}, []string{"page", "result"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gcdash_page_render_duration_seconds",
			Help:    "Time spent rendering a page document",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"page"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gcdash_font_cache_events_total",
			Help: "Style payload cache hits, misses and writes",
		}, []string{"key_type", "event"}),
		reloadClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "gcdash_live_reload_clients",
			Help: "Connected live reload clients",
		}),
	}
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, page string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(page).Observe(d.Seconds())
	m.renderResult(page, err)
}

func (m *Metrics) renderResult(page string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.renders.WithLabelValues(page, result).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

// SetReloadClients records the live reload client count.
func (m *Metrics) SetReloadClients(n int) {
	m.reloadClients.Set(float64(n))
}

var (
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)
