package nrpucch

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters for a simulation run, on a private registry so that several
// runs in one process (tests) don't collide.
type simMetrics struct {
	registry *prometheus.Registry

	trials      *prometheus.CounterVec // Transmissions looked for, by SNR
	detections  *prometheus.CounterVec // Correct detections, by SNR
	falseAlarms *prometheus.CounterVec // Detections on noise only, by SNR
	probability *prometheus.GaugeVec   // Current Pd or Pfa, by SNR
	metric      *prometheus.HistogramVec
}

func newSimMetrics(runID string) *simMetrics {
	var registry = prometheus.NewRegistry()
	var factory = promauto.With(registry)
	var constLabels = prometheus.Labels{"run_id": runID}

	return &simMetrics{
		registry: registry,
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "nrpucch_sim_trials_total",
			Help:        "PUCCH Format 1 transmissions processed by the simulator.",
			ConstLabels: constLabels,
		}, []string{"snr_db"}),
		detections: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "nrpucch_sim_detections_total",
			Help:        "Transmissions detected with the right payload.",
			ConstLabels: constLabels,
		}, []string{"snr_db"}),
		falseAlarms: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "nrpucch_sim_false_alarms_total",
			Help:        "Transmissions reported valid on noise-only slots.",
			ConstLabels: constLabels,
		}, []string{"snr_db"}),
		probability: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "nrpucch_sim_probability",
			Help:        "Detection or false alarm probability so far.",
			ConstLabels: constLabels,
		}, []string{"snr_db", "test_type"}),
		metric: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "nrpucch_sim_detection_metric",
			Help:        "Normalised detection metric (1 is the threshold).",
			ConstLabels: constLabels,
			Buckets:     []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 4, 8, 16, 64},
		}, []string{"snr_db"}),
	}
}

func snrLabel(snr float64) string {
	return strconv.FormatFloat(snr, 'f', -1, 64)
}

func (m *simMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
