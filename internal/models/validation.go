package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidProfile is matched by every ValidationError.
var ErrInvalidProfile = errors.New("invalid athlete profile")

// ValidationError lists the profile fields that failed boundary validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid athlete profile: %s", strings.Join(e.Fields, "; "))
}

// Is makes errors.Is(err, ErrInvalidProfile) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProfile
}

var profileValidator = validator.New()

// Validate checks the value ranges of the fields present in the profile.
// Absent fields are not an error here; the preprocessor reports them.
func (p *AthleteProfile) Validate() error {
	if p == nil {
		return &ValidationError{Fields: []string{"profile is required"}}
	}

	err := profileValidator.Struct(p)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "gte":
			fields = append(fields, fmt.Sprintf("%s must be >= %s", jsonName(fieldError.StructField()), fieldError.Param()))
		case "lte":
			fields = append(fields, fmt.Sprintf("%s must be <= %s", jsonName(fieldError.StructField()), fieldError.Param()))
		default:
			fields = append(fields, fmt.Sprintf("%s failed %s", jsonName(fieldError.StructField()), fieldError.Tag()))
		}
	}
	return &ValidationError{Fields: fields}
}

var structToJSON = map[string]string{
	"Age":                         "Age",
	"FlexibilityScore":            "Flexibility_Score",
	"TotalWeeklyTrainingHours":    "Total_Weekly_Training_Hours",
	"HighIntensityTrainingHours":  "High_Intensity_Training_Hours",
	"StrengthTrainingFrequency":   "Strength_Training_Frequency",
	"RecoveryTimeBetweenSessions": "Recovery_Time_Between_Sessions",
	"TrainingLoadScore":           "Training_Load_Score",
	"SprintSpeed":                 "Sprint_Speed",
	"EnduranceScore":              "Endurance_Score",
	"AgilityScore":                "Agility_Score",
	"FatigueLevel":                "Fatigue_Level",
	"PreviousInjuryCount":         "Previous_Injury_Count",
}

func jsonName(field string) string {
	if name, ok := structToJSON[field]; ok {
		return name
	}
	return field
}
