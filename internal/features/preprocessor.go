// Package features turns raw athlete profiles into the fixed-order feature
// vectors the injury risk classifiers were trained on.
package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/athlete-guard/internal/models"
)

// Count is the length of every FeatureVector.
const Count = 18

// minTrainingHours replaces a zero weekly training volume before the ratios
// are derived.
const minTrainingHours = 0.1

// Feature positions. The order must match the order used at training time.
const (
	Age = iota
	Gender
	SportType
	ExperienceLevel
	FlexibilityScore
	TotalWeeklyTrainingHours
	HighIntensityTrainingHours
	StrengthTrainingFrequency
	RecoveryTimeBetweenSessions
	TrainingLoadScore
	SprintSpeed
	EnduranceScore
	AgilityScore
	FatigueLevel
	PreviousInjuryCount
	PreviousInjuryType
	IntensityRatio
	RecoveryPerTraining
)

// Names lists the feature names in vector order.
var Names = [Count]string{
	"Age",
	"Gender",
	"Sport_Type",
	"Experience_Level",
	"Flexibility_Score",
	"Total_Weekly_Training_Hours",
	"High_Intensity_Training_Hours",
	"Strength_Training_Frequency",
	"Recovery_Time_Between_Sessions",
	"Training_Load_Score",
	"Sprint_Speed",
	"Endurance_Score",
	"Agility_Score",
	"Fatigue_Level",
	"Previous_Injury_Count",
	"Previous_Injury_Type",
	"Intensity_Ratio",
	"Recovery_Per_Training",
}

// Category tables shared with the training notebooks.
var (
	GenderCodes = map[string]int{"Male": 0, "Female": 1}

	ExperienceCodes = map[string]int{
		"Beginner":     0,
		"Intermediate": 1,
		"Advanced":     2,
		"Professional": 3,
	}

	InjuryTypeCodes = map[string]int{
		"None":          0,
		"Sprain":        1,
		"Ligament Tear": 2,
		"Tendonitis":    3,
		"Strain":        4,
		"Fracture":      5,
	}

	SportTypeCodes = map[string]int{
		"Football":   0,
		"Basketball": 1,
		"Swimming":   2,
		"Tennis":     3,
		"Running":    4,
	}
)

// ErrMissingFeature is matched by every MissingFeatureError.
var ErrMissingFeature = errors.New("missing required features")

// MissingFeatureError names every absent profile field needed by the vector.
type MissingFeatureError struct {
	Fields []string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing required features: [%s]", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrMissingFeature) hold.
func (e *MissingFeatureError) Is(target error) bool {
	return target == ErrMissingFeature
}

// Vector is a preprocessed feature vector in training order.
type Vector [Count]float64

// Slice returns the vector as a slice, as the classifiers expect.
func (v Vector) Slice() []float64 {
	out := make([]float64, Count)
	copy(out, v[:])
	return out
}

// Map returns feature name to value, for logging and display.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, Count)
	for i, name := range Names {
		out[name] = v[i]
	}
	return out
}

// Key returns a stable string form of the vector, used as a cache key.
func (v Vector) Key() string {
	var b strings.Builder
	for i, f := range v {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%g", f)
	}
	return b.String()
}

type numericInput struct {
	index int
	value *float64
}

// Preprocess builds the feature vector for a profile. Categorical attributes
// never fail: unknown or absent values map to code 0. Every absent numeric
// attribute is reported in a single MissingFeatureError.
func Preprocess(p *models.AthleteProfile) (Vector, error) {
	var v Vector
	if p == nil {
		p = &models.AthleteProfile{}
	}

	numeric := []numericInput{
		{Age, p.Age},
		{FlexibilityScore, p.FlexibilityScore},
		{TotalWeeklyTrainingHours, p.TotalWeeklyTrainingHours},
		{HighIntensityTrainingHours, p.HighIntensityTrainingHours},
		{StrengthTrainingFrequency, p.StrengthTrainingFrequency},
		{RecoveryTimeBetweenSessions, p.RecoveryTimeBetweenSessions},
		{TrainingLoadScore, p.TrainingLoadScore},
		{SprintSpeed, p.SprintSpeed},
		{EnduranceScore, p.EnduranceScore},
		{AgilityScore, p.AgilityScore},
		{FatigueLevel, p.FatigueLevel},
		{PreviousInjuryCount, p.PreviousInjuryCount},
	}

	var missing []string
	for _, in := range numeric {
		if in.value == nil {
			missing = append(missing, Names[in.index])
			continue
		}
		v[in.index] = *in.value
	}
	if len(missing) > 0 {
		return Vector{}, &MissingFeatureError{Fields: missing}
	}

	v[Gender] = float64(p.Gender.Resolve(GenderCodes))
	v[SportType] = float64(p.SportType.Resolve(SportTypeCodes))
	v[ExperienceLevel] = float64(p.ExperienceLevel.Resolve(ExperienceCodes))

	injuryType := p.PreviousInjuryType
	if injuryType == nil {
		injuryType = models.NamedCategory("None")
	}
	v[PreviousInjuryType] = float64(injuryType.Resolve(InjuryTypeCodes))

	if v[TotalWeeklyTrainingHours] == 0 {
		v[TotalWeeklyTrainingHours] = minTrainingHours
	}
	v[IntensityRatio] = v[HighIntensityTrainingHours] / v[TotalWeeklyTrainingHours]
	v[RecoveryPerTraining] = v[RecoveryTimeBetweenSessions] / v[TotalWeeklyTrainingHours]

	return v, nil
}
