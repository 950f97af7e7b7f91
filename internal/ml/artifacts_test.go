package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "testdata/models"

// copyFixtures copies the fixture artifacts into a temp dir and applies
// overrides. An empty override removes the file.
func copyFixtures(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	entries, err := os.ReadDir(fixtureDir)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(fixtureDir, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o600))
	}

	for name, content := range overrides {
		path := filepath.Join(dir, name)
		if content == "" {
			require.NoError(t, os.Remove(path))
			continue
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestLoadArtifacts(t *testing.T) {
	a, err := LoadArtifacts(fixtureDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"High", "Low", "Medium"}, a.Encoder.Classes)
	assert.Equal(t, 0.3, a.LowThreshold)
	assert.Len(t, a.RandomForest.Trees, 2)
	assert.Len(t, a.XGBoost.Trees, 3)
	assert.Equal(t, 0.2, a.Calibrator.Intercept)

	summary := a.Summary()
	assert.Equal(t, 2, summary["rf_trees"])
	assert.Equal(t, 18, summary["features"])
}

func TestLoadArtifactsFailures(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		artifact  string
	}{
		{
			name:      "missing calibrator",
			overrides: map[string]string{CalibratorFile: ""},
			artifact:  CalibratorFile,
		},
		{
			name:      "malformed threshold",
			overrides: map[string]string{ThresholdFile: "not-json"},
			artifact:  ThresholdFile,
		},
		{
			name:      "encoder order mismatch",
			overrides: map[string]string{XGBEncoderFile: `{"classes": ["Low", "High", "Medium"]}`},
			artifact:  XGBEncoderFile,
		},
		{
			name: "no low class",
			overrides: map[string]string{
				RFEncoderFile:  `{"classes": ["High", "Minimal", "Medium"]}`,
				XGBEncoderFile: `{"classes": ["High", "Minimal", "Medium"]}`,
			},
			artifact: RFEncoderFile,
		},
		{
			name: "class count mismatch",
			overrides: map[string]string{
				RFEncoderFile:  `{"classes": ["High", "Low"]}`,
				XGBEncoderFile: `{"classes": ["High", "Low"]}`,
			},
			artifact: RandomForestFile,
		},
		{
			name:      "threshold above one",
			overrides: map[string]string{ThresholdFile: "1.5"},
			artifact:  ThresholdFile,
		},
		{
			name:      "threshold below zero",
			overrides: map[string]string{ThresholdFile: "-0.1"},
			artifact:  ThresholdFile,
		},
		{
			name:      "calibrator width",
			overrides: map[string]string{CalibratorFile: `{"coef": [1.0, 2.0], "intercept": 0}`},
			artifact:  CalibratorFile,
		},
		{
			name: "feature count mismatch",
			overrides: map[string]string{RandomForestFile: `{
				"n_classes": 3, "n_features": 17,
				"trees": [{"children_left": [-1], "children_right": [-1], "feature": [-2], "threshold": [-2], "value": [[1, 1, 1]]}]
			}`},
			artifact: RandomForestFile,
		},
		{
			name: "feature name mismatch",
			overrides: map[string]string{RandomForestFile: `{
				"n_classes": 3, "n_features": 18,
				"feature_names": ["Age","Sex","Sport_Type","Experience_Level","Flexibility_Score","Total_Weekly_Training_Hours","High_Intensity_Training_Hours","Strength_Training_Frequency","Recovery_Time_Between_Sessions","Training_Load_Score","Sprint_Speed","Endurance_Score","Agility_Score","Fatigue_Level","Previous_Injury_Count","Previous_Injury_Type","Intensity_Ratio","Recovery_Per_Training"],
				"trees": [{"children_left": [-1], "children_right": [-1], "feature": [-2], "threshold": [-2], "value": [[1, 1, 1]]}]
			}`},
			artifact: RandomForestFile,
		},
		{
			name: "unknown booster split",
			overrides: map[string]string{XGBoostFile: `{
				"num_class": 3, "n_features": 18, "base_score": 0.5,
				"trees": [
					{"nodeid": 0, "split": "Heart_Rate", "split_condition": 1, "yes": 1, "no": 2, "missing": 1,
					 "children": [{"nodeid": 1, "leaf": 0.1}, {"nodeid": 2, "leaf": 0.2}]},
					{"nodeid": 0, "leaf": 0.0},
					{"nodeid": 0, "leaf": 0.0}
				]
			}`},
			artifact: XGBoostFile,
		},
		{
			name: "booster branch back to root",
			overrides: map[string]string{XGBoostFile: `{
				"num_class": 3, "n_features": 18, "base_score": 0.5,
				"trees": [
					{"nodeid": 0, "split": "f13", "split_condition": 6.5, "yes": 0, "no": 2, "missing": 2,
					 "children": [{"nodeid": 1, "leaf": 0.1}, {"nodeid": 2, "leaf": 0.2}]},
					{"nodeid": 0, "leaf": 0.0},
					{"nodeid": 0, "leaf": 0.0}
				]
			}`},
			artifact: XGBoostFile,
		},
		{
			name: "booster branch to a cousin",
			overrides: map[string]string{XGBoostFile: `{
				"num_class": 3, "n_features": 18, "base_score": 0.5,
				"trees": [
					{"nodeid": 0, "split": "f13", "split_condition": 6.5, "yes": 1, "no": 2, "missing": 1,
					 "children": [
						{"nodeid": 1, "split": "f0", "split_condition": 30, "yes": 2, "no": 3, "missing": 3,
						 "children": [{"nodeid": 3, "leaf": 0.1}, {"nodeid": 4, "leaf": 0.3}]},
						{"nodeid": 2, "leaf": 0.2}
					 ]},
					{"nodeid": 0, "leaf": 0.0},
					{"nodeid": 0, "leaf": 0.0}
				]
			}`},
			artifact: XGBoostFile,
		},
		{
			name: "booster split without children",
			overrides: map[string]string{XGBoostFile: `{
				"num_class": 3, "n_features": 18, "base_score": 0.5,
				"trees": [
					{"nodeid": 0, "split": "f13", "split_condition": 6.5, "yes": 0, "no": 0, "missing": 0},
					{"nodeid": 0, "leaf": 0.0},
					{"nodeid": 0, "leaf": 0.0}
				]
			}`},
			artifact: XGBoostFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := copyFixtures(t, tt.overrides)

			_, err := LoadArtifacts(dir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrModelLoad))

			var loadErr *ModelLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.artifact, loadErr.Artifact)
		})
	}
}

func TestLoadArtifactsMissingDir(t *testing.T) {
	_, err := LoadArtifacts(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
