package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/athlete-guard/internal/models"
)

type stubPredictor struct {
	result *models.PredictionResult
	err    error
	calls  int
}

func (s *stubPredictor) Predict(ctx context.Context, p *models.AthleteProfile) (*models.PredictionResult, error) {
	s.calls++
	return s.result, s.err
}

type stubRecommender struct {
	texts []string
	got   *models.AthleteProfile
}

func (s *stubRecommender) Generate(p *models.AthleteProfile) []string {
	s.got = p
	return s.texts
}

type stubGenerator struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}

func newTestService(p *stubPredictor, r *stubRecommender, g *stubGenerator) *Service {
	return NewService(nil, p, r, g, quietLogger())
}

func TestRespondAssessmentWithData(t *testing.T) {
	predictor := &stubPredictor{result: &models.PredictionResult{
		PredictedRiskLevel:      "High",
		InjuryLikelihoodPercent: 71.5,
		Recommendations:         []string{"a", "b"},
	}}
	generator := &stubGenerator{}
	svc := newTestService(predictor, &stubRecommender{}, generator)

	resp, err := svc.Respond(context.Background(), &models.ChatRequest{
		Message:  "What is my risk?",
		UserData: &models.AthleteProfile{Age: models.Float(30)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Your injury risk is High (71.5%). Recommendations: a, b", resp.Response)
	assert.False(t, resp.RequiresData)
	assert.Equal(t, 1, predictor.calls)
	assert.Zero(t, generator.calls)
}

func TestRespondAssessmentWithoutData(t *testing.T) {
	tests := []struct {
		name     string
		userData *models.AthleteProfile
	}{
		{"absent", nil},
		{"empty object", &models.AthleteProfile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &stubPredictor{}
			generator := &stubGenerator{}
			svc := newTestService(predictor, &stubRecommender{}, generator)

			resp, err := svc.Respond(context.Background(), &models.ChatRequest{
				Message:  "predict my injury",
				UserData: tt.userData,
			})
			require.NoError(t, err)

			assert.Equal(t, DataRequestMessage, resp.Response)
			assert.True(t, resp.RequiresData)
			assert.Zero(t, predictor.calls)
			assert.Zero(t, generator.calls)
		})
	}
}

func TestRespondAssessmentFailure(t *testing.T) {
	predictor := &stubPredictor{err: errors.New("missing required features: [Age]")}
	svc := newTestService(predictor, &stubRecommender{}, &stubGenerator{})

	_, err := svc.Respond(context.Background(), &models.ChatRequest{
		Message:  "my risk",
		UserData: &models.AthleteProfile{FatigueLevel: models.Float(3)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Age")
}

func TestRespondGeneral(t *testing.T) {
	generator := &stubGenerator{text: "Shin splints come from repetitive stress."}
	recommender := &stubRecommender{texts: []string{"tip"}}
	svc := newTestService(&stubPredictor{}, recommender, generator)

	resp, err := svc.Respond(context.Background(), &models.ChatRequest{Message: "What causes Shin Splints?"})
	require.NoError(t, err)

	assert.Equal(t, "Shin splints come from repetitive stress.", resp.Response)
	assert.False(t, resp.RequiresData)
	assert.True(t, strings.HasPrefix(generator.prompt, SystemPrompt+"\nUser: "))
	assert.True(t, strings.HasSuffix(generator.prompt, "\nUser: what causes shin splints?\nAssistant:"))
	assert.Nil(t, recommender.got)
}

func TestRespondPreventionAppendsTips(t *testing.T) {
	generator := &stubGenerator{text: "Warm up properly."}
	recommender := &stubRecommender{texts: []string{"Football: warm up", "Stretch"}}
	svc := newTestService(&stubPredictor{}, recommender, generator)

	resp, err := svc.Respond(context.Background(), &models.ChatRequest{Message: "How can I prevent injuries?"})
	require.NoError(t, err)

	assert.Equal(t, "Warm up properly. Specific tips: Football: warm up, Stretch", resp.Response)
	require.NotNil(t, recommender.got)
	assert.Equal(t, 10.0, *recommender.got.TotalWeeklyTrainingHours)
	assert.Equal(t, 0, recommender.got.SportType.Code)
}

func TestRespondUpstreamFailure(t *testing.T) {
	generator := &stubGenerator{err: &UpstreamServiceError{StatusCode: 500, Body: "boom"}}
	svc := newTestService(&stubPredictor{}, &stubRecommender{}, generator)

	_, err := svc.Respond(context.Background(), &models.ChatRequest{Message: "hello"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamService))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "64.07", formatPercent(64.07))
	assert.Equal(t, "64.0", formatPercent(64))
	assert.Equal(t, "0.5", formatPercent(0.5))
}
