package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/athlete-guard/internal/features"
	"github.com/yourusername/athlete-guard/internal/models"
)

// Artifact file names inside the model directory.
const (
	RandomForestFile = "rf_injury_model.json"
	XGBoostFile      = "xgboost_injury_model.json"
	CalibratorFile   = "likelihood_calibrator.json"
	RFEncoderFile    = "rf_target_encoder.json"
	XGBEncoderFile   = "xgb_target_encoder.json"
	ThresholdFile    = "calibration_threshold.json"
)

// Artifacts holds every trained artifact. It is loaded once and never
// mutated, so it can be shared across request handlers without locking.
type Artifacts struct {
	Dir          string
	RandomForest *RandomForest
	XGBoost      *Booster
	Calibrator   *LogisticCalibrator
	Encoder      *LabelEncoder
	LowThreshold float64
}

// LoadArtifacts reads and cross-checks all artifacts in dir.
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{
		Dir:          dir,
		RandomForest: &RandomForest{},
		XGBoost:      &Booster{},
		Calibrator:   &LogisticCalibrator{},
		Encoder:      &LabelEncoder{},
	}
	xgbEncoder := &LabelEncoder{}

	files := []struct {
		name string
		dst  interface{}
	}{
		{RandomForestFile, a.RandomForest},
		{XGBoostFile, a.XGBoost},
		{CalibratorFile, a.Calibrator},
		{RFEncoderFile, a.Encoder},
		{XGBEncoderFile, xgbEncoder},
		{ThresholdFile, &a.LowThreshold},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.dst); err != nil {
			return nil, NewModelLoadError(f.name, "cannot read artifact", err)
		}
	}

	if len(a.Encoder.Classes) == 0 {
		return nil, NewModelLoadError(RFEncoderFile, "encoder has no classes", nil)
	}
	if !a.Encoder.Equal(xgbEncoder) {
		return nil, NewModelLoadError(XGBEncoderFile,
			fmt.Sprintf("class order %v differs from %v", xgbEncoder.Classes, a.Encoder.Classes), nil)
	}
	if a.Encoder.Index(models.RiskLow) < 0 {
		return nil, NewModelLoadError(RFEncoderFile, fmt.Sprintf("no %q class", models.RiskLow), nil)
	}

	if err := a.RandomForest.validate(); err != nil {
		return nil, NewModelLoadError(RandomForestFile, "invalid model", err)
	}
	if err := a.XGBoost.compile(features.Names[:]); err != nil {
		return nil, NewModelLoadError(XGBoostFile, "invalid model", err)
	}

	numClasses := len(a.Encoder.Classes)
	checks := []struct {
		file  string
		model interface {
			NumClasses() int
			NumFeatures() int
			Features() []string
		}
	}{
		{RandomForestFile, a.RandomForest},
		{XGBoostFile, a.XGBoost},
	}
	for _, c := range checks {
		if c.model.NumClasses() != numClasses {
			return nil, NewModelLoadError(c.file,
				fmt.Sprintf("model has %d classes, encoder has %d", c.model.NumClasses(), numClasses), nil)
		}
		if c.model.NumFeatures() != features.Count {
			return nil, NewModelLoadError(c.file,
				fmt.Sprintf("model expects %d features, preprocessor produces %d", c.model.NumFeatures(), features.Count), nil)
		}
		if err := checkFeatureNames(c.model.Features()); err != nil {
			return nil, NewModelLoadError(c.file, "feature mismatch", err)
		}
	}

	if err := a.Calibrator.validate(numClasses); err != nil {
		return nil, NewModelLoadError(CalibratorFile, "invalid calibrator", err)
	}

	if a.LowThreshold < 0 || a.LowThreshold > 1 {
		return nil, NewModelLoadError(ThresholdFile, fmt.Sprintf("threshold %v outside [0,1]", a.LowThreshold), nil)
	}

	return a, nil
}

// Summary describes the loaded artifacts for logs and the CLI.
func (a *Artifacts) Summary() map[string]interface{} {
	return map[string]interface{}{
		"dir":                  a.Dir,
		"classes":              a.Encoder.Classes,
		"rf_trees":             len(a.RandomForest.Trees),
		"xgb_trees":            len(a.XGBoost.Trees),
		"features":             features.Count,
		"low_threshold":        a.LowThreshold,
		"calibrator_coef":      a.Calibrator.Coef,
		"calibrator_intercept": a.Calibrator.Intercept,
	}
}

func checkFeatureNames(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != features.Count {
		return fmt.Errorf("model declares %d feature names, expected %d", len(names), features.Count)
	}
	for i, name := range names {
		if name != features.Names[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, features.Names[i])
		}
	}
	return nil
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
