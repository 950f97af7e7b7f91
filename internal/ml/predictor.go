package ml

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/athlete-guard/internal/features"
	"github.com/yourusername/athlete-guard/internal/logger"
	"github.com/yourusername/athlete-guard/internal/models"
)

// Recommender produces advice texts for a profile.
type Recommender interface {
	Generate(p *models.AthleteProfile) []string
}

// Predictor runs the full prediction pipeline: preprocess, ensemble,
// calibrate, override, then merge recommendations.
type Predictor struct {
	ensemble    *Ensemble
	calibrator  *LogisticCalibrator
	policy      *OverridePolicy
	recommender Recommender
	cache       *PredictionCache
	logger      *logger.PredictionLogger
}

// NewPredictor creates a predictor over loaded artifacts. cache may be nil.
func NewPredictor(a *Artifacts, recommender Recommender, cache *PredictionCache, log *logrus.Logger) *Predictor {
	return &Predictor{
		ensemble:    NewEnsembleFromArtifacts(a),
		calibrator:  a.Calibrator,
		policy:      NewOverridePolicy(a.LowThreshold, a.Encoder.Index(models.RiskLow)),
		recommender: recommender,
		cache:       cache,
		logger:      logger.NewPredictionLogger(log),
	}
}

// Predict validates the profile and returns the wire-shaped result.
func (p *Predictor) Predict(ctx context.Context, profile *models.AthleteProfile) (*models.PredictionResult, error) {
	start := time.Now()

	if err := profile.Validate(); err != nil {
		PredictionFailuresTotal.WithLabelValues("validate").Inc()
		p.logger.LogPredictionError("validate", err)
		return nil, err
	}

	v, err := features.Preprocess(profile)
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("preprocess").Inc()
		p.logger.LogPredictionError("preprocess", err)
		return nil, err
	}
	p.logger.LogFeatures(v.Map())

	assessment, cacheHit, err := p.Assess(ctx, v)
	if err != nil {
		return nil, err
	}

	recommendations := []string{}
	if p.recommender != nil {
		if recs := p.recommender.Generate(profile); recs != nil {
			recommendations = recs
		}
	}

	result := &models.PredictionResult{
		PredictedRiskLevel:      assessment.Label,
		InjuryLikelihoodPercent: round2(assessment.Likelihood),
		ModelClassProbability:   round2(assessment.Confidence * 100),
		Recommendations:         recommendations,
	}

	PredictionsTotal.WithLabelValues(result.PredictedRiskLevel, boolLabel(cacheHit)).Inc()
	p.logger.LogPrediction(result.PredictedRiskLevel, result.InjuryLikelihoodPercent,
		assessment.Confidence, cacheHit, float64(time.Since(start).Microseconds())/1000)

	return result, nil
}

// Assess returns the model assessment for a preprocessed vector and whether
// it came from the cache.
func (p *Predictor) Assess(ctx context.Context, v features.Vector) (*Assessment, bool, error) {
	if p.cache != nil {
		if cached := p.cache.Get(ctx, v); cached != nil {
			return cached, true, nil
		}
	}

	res, err := p.ensemble.Predict(v)
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("inference").Inc()
		p.logger.LogPredictionError("inference", err)
		return nil, false, err
	}
	p.logger.LogModelProbabilities(res.RFProbabilities, res.XGBProbabilities, res.Probabilities)

	likelihood, err := p.calibrator.Likelihood(res.Probabilities)
	if err != nil {
		PredictionFailuresTotal.WithLabelValues("calibration").Inc()
		p.logger.LogPredictionError("calibration", err)
		return nil, false, err
	}

	label, overridden := p.policy.Apply(res.Label, res.Probabilities)
	if overridden {
		ThresholdOverridesTotal.WithLabelValues(res.Label).Inc()
		p.logger.LogOverride(res.Label, p.policy.LowProbability(res.Probabilities), p.policy.Threshold)
	}

	a := &Assessment{
		Label:         label,
		Likelihood:    likelihood,
		Confidence:    res.Confidence,
		Overridden:    overridden,
		Probabilities: res.Probabilities,
	}
	if p.cache != nil {
		p.cache.Set(ctx, v, a)
	}
	return a, false, nil
}

// Check runs the ensemble and calibrator on a zero vector, bypassing the
// cache. Used as a readiness probe.
func (p *Predictor) Check(ctx context.Context) error {
	res, err := p.ensemble.Predict(features.Vector{})
	if err != nil {
		return err
	}
	_, err = p.calibrator.Likelihood(res.Probabilities)
	return err
}

// round2 rounds the exact binary value of v to two decimals with ties to
// even, so 2.675 becomes 2.67.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 2, 64))
	if err != nil {
		return v
	}
	return d.InexactFloat64()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
