package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/athlete-guard/internal/httpclient"
	"github.com/yourusername/athlete-guard/internal/logger"
)

// DefaultAPIURL is the Cohere generate endpoint.
const DefaultAPIURL = "https://api.cohere.ai/v1/generate"

// maxErrorBody caps the upstream body quoted in errors.
const maxErrorBody = 1024

// ClientConfig configures the text generation client.
type ClientConfig struct {
	URL         string
	Token       string
	Model       string
	MaxTokens   int
	Temperature float64
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

// CohereClient calls the Cohere generate API.
type CohereClient struct {
	http   *httpclient.Client
	cfg    ClientConfig
	logger *logger.ChatLogger
}

// NewCohereClient creates a client over a shared outbound HTTP client.
func NewCohereClient(cfg ClientConfig, httpClient *httpclient.Client, log *logrus.Logger) *CohereClient {
	if cfg.URL == "" {
		cfg.URL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = "command"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 100
	}
	return &CohereClient{
		http:   httpClient,
		cfg:    cfg,
		logger: logger.NewChatLogger(log),
	}
}

// Generate returns the trimmed text of the first generation for prompt.
func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:       c.cfg.Model,
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, c.cfg.URL, "application/json", bytes.NewReader(payload), map[string]string{
		"Authorization": "Bearer " + c.cfg.Token,
	})
	UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		upstreamErr := &UpstreamServiceError{Cause: err}
		c.logger.LogUpstreamError(c.cfg.Model, upstreamErr)
		return "", upstreamErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return "", &UpstreamServiceError{StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		UpstreamRequestsTotal.WithLabelValues("http_error").Inc()
		upstreamErr := &UpstreamServiceError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		c.logger.LogUpstreamError(c.cfg.Model, upstreamErr)
		return "", upstreamErr
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		UpstreamRequestsTotal.WithLabelValues("bad_payload").Inc()
		return "", &UpstreamServiceError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected response format: %w", err)}
	}
	if len(decoded.Generations) == 0 {
		UpstreamRequestsTotal.WithLabelValues("bad_payload").Inc()
		return "", &UpstreamServiceError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected response format: no generations")}
	}

	UpstreamRequestsTotal.WithLabelValues("success").Inc()
	c.logger.LogUpstreamCall(c.cfg.Model, resp.StatusCode, float64(time.Since(start).Microseconds())/1000)
	return strings.TrimSpace(decoded.Generations[0].Text), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
