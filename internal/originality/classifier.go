// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package originality

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/httputil"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// Classifier abstracts the remote text-classification service so tests can
// supply a stub. Implementations return an error, never a partial result,
// when the service cannot answer.
type Classifier interface {
	Classify(ctx context.Context, text string) (*ClassifierResult, error)
}

// ClassifierResult is the part of the service response the scorer consumes.
type ClassifierResult struct {
	AverageGeneratedProb float64          `json:"average_generated_prob"`
	OverallBurstiness    float64          `json:"overall_burstiness"`
	Sentences            []ScoredSentence `json:"sentences"`
}

// ScoredSentence is one sentence as returned by the service.
type ScoredSentence struct {
	Sentence      string  `json:"sentence"`
	GeneratedProb float64 `json:"generated_prob"`
}

type classifyRequest struct {
	Document string `json:"document"`
}

type classifyResponse struct {
	Documents []ClassifierResult `json:"documents"`
}

// HTTPClassifier calls the text-classification service over HTTP through a
// circuit breaker.
type HTTPClassifier struct {
	client httputil.Doer
	cfg    types.ClassifierConfig
	logger *zap.Logger
}

// NewHTTPClassifier returns a classifier for cfg.Endpoint. A nil client
// uses one with cfg.Timeout.
func NewHTTPClassifier(cfg types.ClassifierConfig, client *http.Client, logger *zap.Logger) *HTTPClassifier {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger = logging.OrNop(logger)
	breaker := httputil.NewBreaker("classifier", client, httputil.BreakerConfig{
		FailureThreshold: cfg.BreakerThreshold,
		Cooldown:         cfg.BreakerCooldown,
	}, logger)
	return &HTTPClassifier{client: breaker, cfg: cfg, logger: logger}
}

// Classify submits text and returns the first document's scores.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*ClassifierResult, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrClassifierUnavailable)
	}

	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["x-api-key"] = c.cfg.APIKey
	}

	var resp classifyResponse
	err := httputil.PostJSON(ctx, c.client, httputil.Request{
		URL:        c.cfg.Endpoint,
		UserAgent:  c.cfg.UserAgent,
		Headers:    headers,
		MaxRetries: c.cfg.MaxRetries,
	}, classifyRequest{Document: text}, &resp, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}
	if len(resp.Documents) == 0 {
		return nil, fmt.Errorf("%w: response contained no documents", ErrClassifierUnavailable)
	}
	return &resp.Documents[0], nil
}
