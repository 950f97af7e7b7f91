package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/athlete-guard/internal/chat"
	"github.com/yourusername/athlete-guard/internal/models"
	"github.com/yourusername/athlete-guard/internal/tracing"
)

// handlePredict handles POST /predict. Every failure is a 400.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var profile models.AthleteProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ctx, seg := tracing.StartSubsegment(r.Context(), "predict")
	result, err := s.predictor.Predict(ctx, &profile)
	tracing.EndSubsegment(seg, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tracing.AddAnnotation(r.Context(), "risk_level", result.PredictedRiskLevel)
	writeJSON(w, http.StatusOK, result)
}

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	resp, err := s.chat.Respond(r.Context(), &req)
	if err != nil {
		tracing.AddError(r.Context(), err)
		writeError(w, chatErrorStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// chatErrorStatus maps upstream failures to 502 and everything else to 400.
func chatErrorStatus(err error) int {
	if errors.Is(err, chat.ErrUpstreamService) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}
