package scheduler

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CacheMaintainer evicts expired prediction cache entries.
type CacheMaintainer interface {
	Maintain() int
	Stats() (hits, misses uint64, ratio float64)
}

// ModelChecker verifies the loaded models still produce predictions.
type ModelChecker interface {
	Check(ctx context.Context) error
}

// CacheReportJob evicts expired entries and logs cache statistics.
func CacheReportJob(c CacheMaintainer, logger *logrus.Logger) Job {
	return func(ctx context.Context) error {
		items := c.Maintain()
		hits, misses, ratio := c.Stats()
		logger.WithFields(logrus.Fields{
			"component":       "scheduler",
			"cache_items":     items,
			"cache_hits":      hits,
			"cache_misses":    misses,
			"cache_hit_ratio": ratio,
		}).Info("Prediction cache report")
		return nil
	}
}

// ModelCheckJob runs the model check and reports the outcome through
// onResult, typically wired to readiness and the models_loaded gauge.
func ModelCheckJob(m ModelChecker, onResult func(healthy bool)) Job {
	return func(ctx context.Context) error {
		err := m.Check(ctx)
		if onResult != nil {
			onResult(err == nil)
		}
		return err
	}
}
