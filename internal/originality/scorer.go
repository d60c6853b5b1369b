// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package originality estimates how much of a text is AI-generated, using a
// remote classifier with an offline simulation as the fallback.
package originality

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/internal/metrics"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// MinWords is the smallest text Score accepts.
const MinWords = 10

// Progress is a staged status update emitted during Score.
type Progress struct {
	Percent int
	Status  string
}

// ProgressFunc receives progress updates. It may be nil.
type ProgressFunc func(Progress)

// Scorer produces originality reports.
type Scorer struct {
	classifier Classifier
	policy     types.FallbackPolicy
	logger     *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithRand sets the random source used for simulation.
func WithRand(r *rand.Rand) Option {
	return func(s *Scorer) { s.rng = r }
}

// WithLogger sets the scorer logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// NewScorer returns a scorer. A nil classifier sends every run straight to
// the fallback policy.
func NewScorer(classifier Classifier, policy types.FallbackPolicy, opts ...Option) *Scorer {
	s := &Scorer{classifier: classifier, policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if s.policy == "" {
		s.policy = types.FallbackSimulate
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Score classifies text. Texts under MinWords words are rejected before
// the classifier is called.
func (s *Scorer) Score(ctx context.Context, text string, progress ProgressFunc) (*types.OriginalityReport, error) {
	report := func(percent int, status string) {
		if progress != nil {
			progress(Progress{Percent: percent, Status: status})
		}
	}

	text = strings.TrimSpace(text)
	if words := len(strings.Fields(text)); words < MinWords {
		metrics.ScoringRuns.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w (have %d)", ErrInsufficientContent, words)
	}
	report(10, "Preparing text")

	var (
		result *ClassifierResult
		err    error
	)
	if s.classifier == nil {
		err = fmt.Errorf("%w: no classifier configured", ErrClassifierUnavailable)
	} else {
		report(30, "Contacting classifier")
		result, err = s.classifier.Classify(ctx, text)
	}

	if err != nil {
		if s.policy == types.FallbackFail || ctx.Err() != nil {
			metrics.ScoringRuns.WithLabelValues("failed").Inc()
			if !errors.Is(err, ErrClassifierUnavailable) {
				err = fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
			}
			return nil, err
		}
		s.logger.Warn("classifier unavailable, using simulated score", zap.Error(err))
		report(70, "Estimating offline")
		r := s.Simulate(text, s.randomPercentage())
		metrics.ScoringRuns.WithLabelValues("simulated").Inc()
		metrics.ScoringPercentage.Observe(float64(r.Percentage))
		report(100, "Complete")
		return r, nil
	}

	report(70, "Analysing sentences")
	r := fromResult(text, result)
	metrics.ScoringRuns.WithLabelValues("remote").Inc()
	metrics.ScoringPercentage.Observe(float64(r.Percentage))
	s.logger.Info("scored text",
		zap.Int("percentage", r.Percentage),
		zap.Int("sentences", len(r.Sentences)),
	)
	report(100, "Complete")
	return r, nil
}

// Simulate produces a simulated report at a fixed percentage.
func (s *Scorer) Simulate(text string, percentage int) *types.OriginalityReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return simulate(s.rng, text, percentage)
}

func (s *Scorer) randomPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(100) + 1
}

// fromResult converts a classifier answer into a report.
func fromResult(text string, res *ClassifierResult) *types.OriginalityReport {
	percentage := clampPercent(math.Round(res.AverageGeneratedProb * 100))
	confidence := clampPercent(math.Round((1 - res.OverallBurstiness) * 100))

	scored := make([]types.SentenceClassification, 0, len(res.Sentences))
	for _, s := range res.Sentences {
		text := strings.TrimSpace(s.Sentence)
		if text == "" {
			continue
		}
		scored = append(scored, types.SentenceClassification{
			Text:        text,
			Probability: s.GeneratedProb,
			Class:       ClassifySentence(s.GeneratedProb, percentage),
		})
	}
	if len(scored) == 0 {
		// No per-sentence breakdown; every sentence inherits the document score.
		for _, sentence := range SplitSentences(text) {
			scored = append(scored, types.SentenceClassification{
				Text:        sentence,
				Probability: res.AverageGeneratedProb,
				Class:       ClassifySentence(res.AverageGeneratedProb, percentage),
			})
		}
	}

	human := IsHuman(percentage)
	return &types.OriginalityReport{
		Percentage:        percentage,
		IsHuman:           human,
		Confidence:        confidence,
		Analysis:          Analyze(text, scored),
		HighlightedMarkup: HighlightMarkup(scored),
		Sentences:         scored,
		Recommendation:    recommendation(human, false),
	}
}

func clampPercent(v float64) int {
	return int(math.Max(0, math.Min(100, v)))
}
