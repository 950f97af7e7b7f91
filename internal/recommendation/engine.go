// Package recommendation generates rule-based injury prevention advice from
// a raw athlete profile.
package recommendation

import (
	"github.com/google/uuid"

	"github.com/yourusername/athlete-guard/internal/models"
)

// Recommendation is one piece of advice with its supporting detail.
type Recommendation struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Priority float64 `json:"priority"`
	Details  string  `json:"details"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
}

// Engine evaluates the recommendation rules. It is stateless and safe for
// concurrent use.
type Engine struct {
	newID func() string
}

// NewEngine creates an engine that assigns random UUIDs.
func NewEngine() *Engine {
	return &Engine{newID: func() string { return uuid.New().String() }}
}

// Evaluate returns the full recommendation records grouped by category.
// Priority is informational; it does not affect order or selection.
func (e *Engine) Evaluate(p *models.AthleteProfile) []Recommendation {
	in := newInputs(p)

	grouped := make(map[string][]Recommendation, len(Categories))
	for _, r := range rules {
		if !r.match(in) {
			continue
		}
		grouped[r.category] = append(grouped[r.category], Recommendation{
			ID:       e.newID(),
			Text:     r.text,
			Priority: r.priority(in),
			Details:  r.details,
			Source:   r.source,
			Category: r.category,
		})
	}

	out := make([]Recommendation, 0, len(rules))
	for _, category := range Categories {
		out = append(out, grouped[category]...)
	}
	return out
}

// Generate returns the recommendation texts only. Identical profiles always
// produce the same list.
func (e *Engine) Generate(p *models.AthleteProfile) []string {
	recs := e.Evaluate(p)
	texts := make([]string, len(recs))
	for i, r := range recs {
		texts[i] = r.Text
	}
	return texts
}
