package chat

import (
	"strings"
)

// Intent is the routing decision for a chat message.
type Intent int

const (
	// IntentGeneral is answered by the text generation API.
	IntentGeneral Intent = iota
	// IntentAssessment asks for a personal risk assessment.
	IntentAssessment
	// IntentPrevention is a general question enriched with prevention tips.
	IntentPrevention
)

func (i Intent) String() string {
	switch i {
	case IntentAssessment:
		return "assessment"
	case IntentPrevention:
		return "prevention"
	default:
		return "general"
	}
}

// KeywordRule matches messages containing Keyword anywhere, including
// inside longer words.
type KeywordRule struct {
	Keyword string
	Intent  Intent
}

func (r KeywordRule) matches(message string) bool {
	return strings.Contains(message, r.Keyword)
}

// DefaultRules route "risk", "predict" and "my" to an assessment and
// "prevent", "avoid" to prevention tips.
var DefaultRules = []KeywordRule{
	{Keyword: "risk", Intent: IntentAssessment},
	{Keyword: "predict", Intent: IntentAssessment},
	{Keyword: "my", Intent: IntentAssessment},
	{Keyword: "prevent", Intent: IntentPrevention},
	{Keyword: "avoid", Intent: IntentPrevention},
}

// IntentClassifier is an explicit keyword classifier over the lower-cased
// message. Assessment wins over prevention when both match.
type IntentClassifier struct {
	rules []KeywordRule
}

// NewIntentClassifier creates a classifier with the given rules, or
// DefaultRules when none are given.
func NewIntentClassifier(rules ...KeywordRule) *IntentClassifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &IntentClassifier{rules: rules}
}

// Classify returns the intent of message.
func (c *IntentClassifier) Classify(message string) Intent {
	message = strings.ToLower(message)
	result := IntentGeneral
	for _, r := range c.rules {
		if !r.matches(message) {
			continue
		}
		if r.Intent == IntentAssessment {
			return IntentAssessment
		}
		result = r.Intent
	}
	return result
}
