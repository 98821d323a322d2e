package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the exporter. The struct
// is passed explicitly to components that record metrics.
type Metrics struct {
	exportCycles *prometheus.CounterVec
	sinkExports  *prometheus.CounterVec
	historyRows  prometheus.Gauge
}

// New creates a Metrics instance and registers its collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		exportCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoexport_cycles_total",
				Help: "Total number of export cycles by outcome",
			},
			[]string{"status"},
		),
		sinkExports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoexport_sink_exports_total",
				Help: "Total number of sink deliveries by sink and outcome",
			},
			[]string{"sink", "status"},
		),
		historyRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "autoexport_history_rows",
				Help: "Number of history rows in the most recent export",
			},
		),
	}
}

// RecordCycle records one export cycle.
func (m *Metrics) RecordCycle(err error) {
	m.exportCycles.WithLabelValues(status(err)).Inc()
}

// RecordSinkExport records one sink delivery attempt.
func (m *Metrics) RecordSinkExport(sink string, err error) {
	m.sinkExports.WithLabelValues(sink, status(err)).Inc()
}

// RecordHistoryRows records the size of the most recent export.
func (m *Metrics) RecordHistoryRows(rows int) {
	m.historyRows.Set(float64(rows))
}

// Handler exposes the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}
