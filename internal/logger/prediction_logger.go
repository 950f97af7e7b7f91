package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the risk prediction pipeline.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogFeatures logs the preprocessed feature vector.
func (pl *PredictionLogger) LogFeatures(features map[string]float64) {
	pl.WithField("features", features).Debug("Preprocessed features")
}

// LogModelProbabilities logs per-model and averaged class probabilities.
func (pl *PredictionLogger) LogModelProbabilities(rf, xgb, avg []float64) {
	pl.WithFields(logrus.Fields{
		"rf_probabilities":       rf,
		"xgb_probabilities":      xgb,
		"ensemble_probabilities": avg,
	}).Debug("Model probabilities")
}

// LogOverride logs a threshold override of the predicted label.
func (pl *PredictionLogger) LogOverride(originalLabel string, lowProbability, threshold float64) {
	pl.WithFields(logrus.Fields{
		"original_label":  originalLabel,
		"low_probability": lowProbability,
		"threshold":       threshold,
	}).Info("Low risk threshold override applied")
}

// LogPrediction logs a completed prediction.
func (pl *PredictionLogger) LogPrediction(label string, likelihood, confidence float64, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"predicted_risk_level": label,
		"injury_likelihood":    likelihood,
		"confidence":           confidence,
		"cache_hit":            cacheHit,
		"latency_ms":           latencyMs,
	}).Info("Risk prediction completed")
}

// LogPredictionError logs a failed prediction.
func (pl *PredictionLogger) LogPredictionError(stage string, err error) {
	pl.WithFields(logrus.Fields{
		"stage": stage,
		"error": err.Error(),
	}).Error("Risk prediction failed")
}
