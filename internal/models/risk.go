package models

// Risk level labels produced by the target encoders.
const (
	RiskHigh   = "High"
	RiskLow    = "Low"
	RiskMedium = "Medium"
)

// PredictionResult is the response body of a prediction request.
type PredictionResult struct {
	PredictedRiskLevel      string   `json:"predicted_risk_level"`
	InjuryLikelihoodPercent float64  `json:"injury_likelihood_percent"`
	ModelClassProbability   float64  `json:"model_class_probability"`
	Recommendations         []string `json:"recommendations"`
}

// ChatRequest is the request body of the chat endpoint.
type ChatRequest struct {
	Message  string          `json:"message"`
	UserData *AthleteProfile `json:"user_data,omitempty"`
}

// ChatResponse is the response body of the chat endpoint.
type ChatResponse struct {
	Response     string `json:"response"`
	RequiresData bool   `json:"requires_data"`
}

// ErrorResponse is returned with every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
