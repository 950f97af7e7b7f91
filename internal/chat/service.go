package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/athlete-guard/internal/logger"
	"github.com/yourusername/athlete-guard/internal/models"
)

// SystemPrompt is prepended to every text generation prompt.
const SystemPrompt = "You are AthleteGuard AI, an assistant for a sports injury prediction system. " +
	"Answer questions about sports injuries, prevention, and the system concisely (under 100 words). " +
	"Context: Sports injuries result from overuse, improper technique, or insufficient recovery. " +
	"Shin splints are caused by repetitive stress, often from running or improper footwear. " +
	"Prevent injuries with balanced training, proper gear, and fatigue monitoring. " +
	"The system uses RandomForest and XGBoost to predict injury risk with 92% accuracy. " +
	"For personal injury risk queries, prompt the user to provide data via the calculator form."

// DataRequestMessage asks the user for calculator input.
const DataRequestMessage = "Please provide details like age, training hours, and fatigue level using the calculator form."

// Predictor produces a risk assessment for a profile.
type Predictor interface {
	Predict(ctx context.Context, profile *models.AthleteProfile) (*models.PredictionResult, error)
}

// Recommender produces advice texts for a profile.
type Recommender interface {
	Generate(p *models.AthleteProfile) []string
}

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SampleProfile is the typical athlete used for generic prevention tips.
func SampleProfile() *models.AthleteProfile {
	return &models.AthleteProfile{
		FatigueLevel:                models.Float(5),
		RecoveryTimeBetweenSessions: models.Float(12),
		TotalWeeklyTrainingHours:    models.Float(10),
		HighIntensityTrainingHours:  models.Float(3),
		PreviousInjuryCount:         models.Float(0),
		FlexibilityScore:            models.Float(5),
		AgilityScore:                models.Float(5),
		StrengthTrainingFrequency:   models.Float(2),
		ExperienceLevel:             models.CodedCategory(1),
		SportType:                   models.CodedCategory(0),
	}
}

// Service answers chat requests.
type Service struct {
	classifier  *IntentClassifier
	predictor   Predictor
	recommender Recommender
	generator   TextGenerator
	logger      *logger.ChatLogger
}

// NewService creates a chat service.
func NewService(classifier *IntentClassifier, predictor Predictor, recommender Recommender, generator TextGenerator, log *logrus.Logger) *Service {
	if classifier == nil {
		classifier = NewIntentClassifier()
	}
	return &Service{
		classifier:  classifier,
		predictor:   predictor,
		recommender: recommender,
		generator:   generator,
		logger:      logger.NewChatLogger(log),
	}
}

// Respond routes a message and builds the reply.
func (s *Service) Respond(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("chat request is required")
	}

	intent := s.classifier.Classify(req.Message)
	hasData := !req.UserData.Empty()
	MessagesTotal.WithLabelValues(intent.String()).Inc()
	s.logger.LogIntent(intent.String(), hasData, len(req.Message))

	if intent == IntentAssessment {
		if !hasData {
			return &models.ChatResponse{Response: DataRequestMessage, RequiresData: true}, nil
		}
		result, err := s.predictor.Predict(ctx, req.UserData)
		if err != nil {
			return nil, fmt.Errorf("risk assessment failed: %w", err)
		}
		return &models.ChatResponse{
			Response: fmt.Sprintf("Your injury risk is %s (%s%%). Recommendations: %s",
				result.PredictedRiskLevel,
				formatPercent(result.InjuryLikelihoodPercent),
				strings.Join(result.Recommendations, ", ")),
		}, nil
	}

	prompt := SystemPrompt + "\nUser: " + strings.ToLower(req.Message) + "\nAssistant:"
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if intent == IntentPrevention && s.recommender != nil {
		answer += " Specific tips: " + strings.Join(s.recommender.Generate(SampleProfile()), ", ")
	}

	return &models.ChatResponse{Response: answer}, nil
}

// formatPercent prints a rounded percentage, always with a fractional part.
func formatPercent(v float64) string {
	s := decimal.NewFromFloat(v).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
