package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Category is a categorical athlete attribute as received from a client.
// Names are encoded for the models through fixed tables. The calculator form
// sends integer codes instead; those are kept as given for the recommendation
// rules, which compare raw codes, and never reach the models.
type Category struct {
	Name    string
	Code    int
	HasCode bool
	// Null is set when the client sent an explicit JSON null.
	Null bool
}

// NamedCategory returns a Category holding a category name.
func NamedCategory(name string) *Category {
	return &Category{Name: name}
}

// CodedCategory returns a Category holding a pre-encoded code.
func CodedCategory(code int) *Category {
	return &Category{Code: code, HasCode: true}
}

// NullCategory returns a Category for an explicit JSON null.
func NullCategory() *Category {
	return &Category{Null: true}
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Category{Null: true}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Category{Name: name}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("category must be a string or a number: %w", err)
	}
	if num != math.Trunc(num) {
		// Fractional codes never equal a rule code.
		*c = Category{Code: -1, HasCode: true}
		return nil
	}
	*c = Category{Code: int(num), HasCode: true}
	return nil
}

// MarshalJSON writes the name, the code or null.
func (c Category) MarshalJSON() ([]byte, error) {
	switch {
	case c.Null:
		return []byte("null"), nil
	case c.HasCode:
		return json.Marshal(c.Code)
	}
	return json.Marshal(c.Name)
}

// CodeIs reports whether the category was sent as the given integer code.
func (c *Category) CodeIs(code int) bool {
	return c != nil && c.HasCode && c.Code == code
}

// Resolve maps the category name onto the given table. Names are matched
// exactly. Unknown names, integer codes, null and a nil category all resolve
// to 0.
func (c *Category) Resolve(table map[string]int) int {
	if c == nil || c.Null || c.HasCode {
		return 0
	}
	return table[c.Name]
}

// AthleteProfile is the raw input of a prediction request. Numeric fields are
// pointers so that an absent field can be told apart from an explicit zero.
type AthleteProfile struct {
	Age                         *float64  `json:"Age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Gender                      *Category `json:"Gender,omitempty"`
	SportType                   *Category `json:"Sport_Type,omitempty"`
	ExperienceLevel             *Category `json:"Experience_Level,omitempty"`
	FlexibilityScore            *float64  `json:"Flexibility_Score,omitempty" validate:"omitempty,gte=0"`
	TotalWeeklyTrainingHours    *float64  `json:"Total_Weekly_Training_Hours,omitempty" validate:"omitempty,gte=0"`
	HighIntensityTrainingHours  *float64  `json:"High_Intensity_Training_Hours,omitempty" validate:"omitempty,gte=0"`
	StrengthTrainingFrequency   *float64  `json:"Strength_Training_Frequency,omitempty" validate:"omitempty,gte=0"`
	RecoveryTimeBetweenSessions *float64  `json:"Recovery_Time_Between_Sessions,omitempty" validate:"omitempty,gte=0"`
	TrainingLoadScore           *float64  `json:"Training_Load_Score,omitempty" validate:"omitempty,gte=0"`
	SprintSpeed                 *float64  `json:"Sprint_Speed,omitempty" validate:"omitempty,gte=0"`
	EnduranceScore              *float64  `json:"Endurance_Score,omitempty" validate:"omitempty,gte=0"`
	AgilityScore                *float64  `json:"Agility_Score,omitempty" validate:"omitempty,gte=0"`
	FatigueLevel                *float64  `json:"Fatigue_Level,omitempty" validate:"omitempty,gte=0"`
	PreviousInjuryCount         *float64  `json:"Previous_Injury_Count,omitempty" validate:"omitempty,gte=0"`
	PreviousInjuryType          *Category `json:"Previous_Injury_Type,omitempty"`
}

// Float returns a pointer to v, for building profiles in code.
func Float(v float64) *float64 {
	return &v
}

// ValueOr returns *p, or def when p is nil.
func ValueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// categoryFields maps the JSON keys of categorical fields to their slots.
func (p *AthleteProfile) categoryFields() map[string]**Category {
	return map[string]**Category{
		"Gender":               &p.Gender,
		"Sport_Type":           &p.SportType,
		"Experience_Level":     &p.ExperienceLevel,
		"Previous_Injury_Type": &p.PreviousInjuryType,
	}
}

// UnmarshalJSON decodes the profile and keeps explicit nulls on categorical
// fields, which the decoder would otherwise leave indistinguishable from
// absent ones.
func (p *AthleteProfile) UnmarshalJSON(data []byte) error {
	type plain AthleteProfile
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = AthleteProfile(decoded)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, field := range p.categoryFields() {
		if value, ok := raw[key]; ok && bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			*field = NullCategory()
		}
	}
	return nil
}

// Empty reports whether no field of the profile was provided.
func (p *AthleteProfile) Empty() bool {
	return p == nil || *p == AthleteProfile{}
}
