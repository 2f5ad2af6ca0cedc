package metrics

import (
	"net/http"
	"time"

	"planner3d/internal/converter/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics хранит метрики Prometheus сервиса конвертации.
type Metrics struct {
	registry          *prometheus.Registry
	conversions       *prometheus.CounterVec
	roomsConverted    *prometheus.CounterVec
	conversionLatency prometheus.Histogram
	importFailures    prometheus.Counter
	importSkipped     prometheus.Counter
}

// New регистрирует метрики в собственном реестре, а не в глобальном.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layout_conversions_total",
				Help: "Total number of layout conversions by source",
			},
			[]string{"source"},
		),
		roomsConverted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layout_rooms_total",
				Help: "Rooms processed by outcome (converted or degraded)",
			},
			[]string{"outcome"},
		),
		conversionLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "layout_conversion_latency_ms",
				Help:    "Latency of layout conversion in milliseconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		importFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "svg_import_failures_total",
				Help: "SVG imports rejected as unreadable or empty",
			},
		),
		importSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "svg_import_skipped_elements_total",
				Help: "SVG elements that could not be attached to a room",
			},
		),
	}
}

// ObserveConversion учитывает один построенный план: источник, комнаты по исходу и время.
func (m *Metrics) ObserveConversion(source string, layout models.Layout3D, took time.Duration) {
	m.conversions.WithLabelValues(source).Inc()
	degraded := len(layout.Degraded())
	m.roomsConverted.WithLabelValues(models.Converted.String()).Add(float64(len(layout.Rooms) - degraded))
	m.roomsConverted.WithLabelValues(models.Degraded.String()).Add(float64(degraded))
	m.conversionLatency.Observe(float64(took.Microseconds()) / 1000.0)
}

func (m *Metrics) ImportFailed() {
	m.importFailures.Inc()
}

func (m *Metrics) ImportSkipped(n int) {
	m.importSkipped.Add(float64(n))
}

// Handler отдаёт реестр в текстовом формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
