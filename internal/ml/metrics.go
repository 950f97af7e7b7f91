package ml

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks completed risk predictions
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_predictions_total",
			Help: "Total number of risk predictions made",
		},
		[]string{"risk_level", "cache_hit"},
	)

	// PredictionFailuresTotal tracks failed risk predictions
	PredictionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_prediction_failures_total",
			Help: "Total number of failed risk predictions",
		},
		[]string{"stage"}, // preprocess, inference, calibration
	)

	// ThresholdOverridesTotal tracks Low threshold overrides
	ThresholdOverridesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_threshold_overrides_total",
			Help: "Total number of predictions relabelled Low by the threshold override",
		},
		[]string{"original_label"},
	)

	// InferenceLatency tracks per-model inference latency
	InferenceLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "athlete_guard_inference_latency_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"model"},
	)

	// InferenceErrorsTotal tracks classifier failures
	InferenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "athlete_guard_inference_errors_total",
			Help: "Total number of classifier failures",
		},
		[]string{"model"},
	)

	// CacheHitRatio tracks prediction cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "athlete_guard_prediction_cache_hit_ratio",
			Help: "Prediction cache hit ratio",
		},
	)
)

type inferenceTimer struct {
	model string
	start time.Time
}

func newInferenceTimer(model string) *inferenceTimer {
	return &inferenceTimer{model: model, start: time.Now()}
}

func (t *inferenceTimer) observe() {
	InferenceLatency.WithLabelValues(t.model).Observe(time.Since(t.start).Seconds())
}
